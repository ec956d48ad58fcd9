package concurrency

import (
	"log/slog"
	"runtime/debug"
)

// SafeGo runs fn in a goroutine with panic recovery. The batch embed
// fan-out uses it so one panicking embedding worker cannot take down
// the process mid-call; onPanic, when non-nil, lets the caller record
// the failure (it runs on the recovering goroutine).
func SafeGo(fn func(), onPanic func(interface{})) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				slog.Error("Panic recovered", "panic", r, "stack", string(stack))
				if onPanic != nil {
					onPanic(r)
				}
			}
		}()
		fn()
	}()
}
