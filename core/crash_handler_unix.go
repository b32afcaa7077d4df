//go:build !wasm

package core

import (
	"fmt"
	"os"
)

func reportCrash(r any, stack []byte) {
	fmt.Fprintf(os.Stderr, "timeforge: panic: %v\n\n%s\n", r, stack)
	os.Exit(2)
}
