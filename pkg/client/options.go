package client

import (
	"io"
	"os"

	"github.com/ecstasoy/oneshot/pkg/config"
	"github.com/ecstasoy/oneshot/pkg/interceptor"
)

type clientOptions struct {
	config config.ClientConfig
	logger interceptor.Logger
	stdout io.Writer
}

func defaultOptions() *clientOptions {
	return &clientOptions{
		config: config.Default().Client,
		stdout: os.Stdout,
	}
}

type Option func(*clientOptions)

func WithConfig(cfg config.ClientConfig) Option {
	return func(o *clientOptions) {
		o.config = cfg
	}
}

func WithLogger(logger interceptor.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithStdout sets where the received text and the connect diagnostic go.
func WithStdout(w io.Writer) Option {
	return func(o *clientOptions) {
		o.stdout = w
	}
}
