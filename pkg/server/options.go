// Kunhua Huang 2026

package server

import (
	"io"
	"net"
	"os"

	"github.com/ecstasoy/oneshot/pkg/config"
	"github.com/ecstasoy/oneshot/pkg/interceptor"
)

type serverOptions struct {
	config  config.ServerConfig
	logger  interceptor.Logger
	stderr  io.Writer
	onReady func(addr net.Addr)
}

func defaultServerOptions() *serverOptions {
	return &serverOptions{
		config: config.Default().Server,
		stderr: os.Stderr,
	}
}

type Option func(*serverOptions)

func WithConfig(cfg config.ServerConfig) Option {
	return func(o *serverOptions) {
		o.config = cfg
	}
}

func WithLogger(logger interceptor.Logger) Option {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithStderr sets where the perror-style failure lines go.
func WithStderr(w io.Writer) Option {
	return func(o *serverOptions) {
		o.stderr = w
	}
}

// WithReady registers a callback invoked once the server is listening.
func WithReady(fn func(addr net.Addr)) Option {
	return func(o *serverOptions) {
		o.onReady = fn
	}
}
