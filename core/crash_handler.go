package core

import (
	"log"
	"runtime/debug"
	"sync/atomic"
)

// Finalizer restores external state (terminal, audio device) before a crash report
type Finalizer interface {
	Fini()
}

var crashFinalizer atomic.Pointer[Finalizer]

// SetCrashFinalizer registers the collaborator cleaned up by HandleCrash
// Pass nil to clear
func SetCrashFinalizer(f Finalizer) {
	if f == nil {
		crashFinalizer.Store(nil)
		return
	}
	crashFinalizer.Store(&f)
}

// HandleCrash restores the host, records r with its stack in the debug log and
// hands off to the platform report, which does not return
func HandleCrash(r any) {
	if r == nil {
		return
	}
	if p := crashFinalizer.Load(); p != nil {
		(*p).Fini()
	}
	stack := debug.Stack()
	log.Printf("crash: %v\n%s", r, stack)
	reportCrash(r, stack)
}

// Go runs fn on a new goroutine whose panic goes through HandleCrash
// so a failing background loop still restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
