package domain

import (
	"fmt"
	"runtime/debug"
)

// SafeFunctionRun executes the provided function with panic recovery.
// A panic is logged together with the stack of the panicking goroutine
// and returned as a regular error instead of crashing the program.
func SafeFunctionRun(fn func() error, logger Logger) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			logger.Error("recovered from panic: %v\n%s", rec, debug.Stack())
		}
	}()
	return fn()
}
