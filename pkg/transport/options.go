package transport

import (
	"time"

	"github.com/ecstasoy/oneshot/pkg/interceptor"
	"github.com/ecstasoy/oneshot/pkg/protocol"
)

// ------------------- Client Options -------------------

type ClientOptions struct {
	DialTimeout    time.Duration
	ReadTimeout    time.Duration
	ReadBufferSize int
	// FullRead keeps reading until the buffer is full or the peer closes.
	// The default is a single read call.
	FullRead bool
	Chain    *interceptor.Chain
}

func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		ReadBufferSize: protocol.DefaultBufferSize,
	}
}

type ClientOption func(*ClientOptions)

func WithDialTimeout(timeout time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.DialTimeout = timeout
	}
}

func WithReadTimeout(timeout time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.ReadTimeout = timeout
	}
}

func WithBufferSize(size int) ClientOption {
	return func(opts *ClientOptions) {
		opts.ReadBufferSize = size
	}
}

func WithFullRead(full bool) ClientOption {
	return func(opts *ClientOptions) {
		opts.FullRead = full
	}
}

func WithClientInterceptors(interceptors ...interceptor.Interceptor) ClientOption {
	return func(opts *ClientOptions) {
		opts.Chain = interceptor.NewChain(interceptors...)
	}
}

// ------------------- Server Options -------------------

type ServerOptions struct {
	Backlog int
	// FullWrite loops until every byte is written. The default is a single
	// write call whose count is reported but not retried.
	FullWrite     bool
	AcceptTimeout time.Duration
	ReuseAddr     bool
	Chain         *interceptor.Chain
}

func DefaultServerOptions() *ServerOptions {
	return &ServerOptions{
		Backlog:   protocol.DefaultBacklog,
		ReuseAddr: true,
	}
}

type ServerOption func(*ServerOptions)

func WithBacklog(backlog int) ServerOption {
	return func(opts *ServerOptions) {
		opts.Backlog = backlog
	}
}

func WithFullWrite(full bool) ServerOption {
	return func(opts *ServerOptions) {
		opts.FullWrite = full
	}
}

func WithAcceptTimeout(timeout time.Duration) ServerOption {
	return func(opts *ServerOptions) {
		opts.AcceptTimeout = timeout
	}
}

func WithReuseAddr(reuse bool) ServerOption {
	return func(opts *ServerOptions) {
		opts.ReuseAddr = reuse
	}
}

func WithServerInterceptors(interceptors ...interceptor.Interceptor) ServerOption {
	return func(opts *ServerOptions) {
		opts.Chain = interceptor.NewChain(interceptors...)
	}
}
