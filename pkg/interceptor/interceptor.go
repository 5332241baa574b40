// Kunhua Huang 2026

package interceptor

import (
	"context"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

// Call describes one socket primitive about to run.
type Call struct {
	Role string // "server" or "client"
	Op   protocol.Op
	Addr string
}

// Invoker performs the primitive and returns the number of bytes moved, zero
// for primitives that move none.
type Invoker func(ctx context.Context, call *Call) (int, error)

type Interceptor func(ctx context.Context, call *Call, invoker Invoker) (int, error)

type Chain struct {
	interceptors []Interceptor
}

func NewChain(interceptor ...Interceptor) *Chain {
	return &Chain{interceptors: interceptor}
}

func (ic *Chain) Intercept(ctx context.Context, call *Call, invoker Invoker) (int, error) {
	if ic == nil || len(ic.interceptors) == 0 {
		return invoker(ctx, call)
	}

	return ic.buildChain(invoker)(ctx, call)
}

func (ic *Chain) buildChain(invoker Invoker) Invoker {
	for i := len(ic.interceptors) - 1; i >= 0; i-- {
		next := invoker
		interceptor := ic.interceptors[i]

		invoker = func(ctx context.Context, call *Call) (int, error) {
			return interceptor(ctx, call, next)
		}
	}

	return invoker
}
