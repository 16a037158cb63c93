package domain

import (
	"fmt"
	"runtime/debug"
)

// SafeFunctionRun executes fn and turns a panic into an error. The panic is
// logged with the stack of the panicking goroutine.
func SafeFunctionRun(fn func() error, logger Logger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			logger.Error("sensor read panicked: %v\n%s", rec, debug.Stack())
		}
	}()
	return fn()
}
