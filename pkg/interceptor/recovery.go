// Kunhua Huang 2026

package interceptor

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

// Recovery turns a panic inside a primitive into a fatal error for that op.
func Recovery() Interceptor {
	return func(ctx context.Context, call *Call, invoker Invoker) (n int, err error) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()
				err = protocol.NewError(call.Op, protocol.Fatal, call.Addr,
					fmt.Errorf("panic recovered: %v\nstack:\n%s", r, stack))
				n = 0
			}
		}()

		return invoker(ctx, call)
	}
}
