//go:build wasm

package core

import (
	"fmt"
	"syscall/js"
)

// reportCrash writes to the browser console and re-panics; wasm has no exit status to set
func reportCrash(r any, stack []byte) {
	js.Global().Get("console").Call("error", fmt.Sprintf("timeforge: panic: %v\n%s", r, stack))
	panic(r)
}
