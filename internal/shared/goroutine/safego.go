// Package goroutine provides utilities for launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"deskhub/internal/shared/logger"
)

// SafeGo launches fn in a goroutine. A panic inside fn is caught and logged
// with its stack trace instead of crashing the process. Background cache
// refreshes and pub/sub handlers run under this guard.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
