package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecstasoy/oneshot/pkg/interceptor"
	"github.com/ecstasoy/oneshot/pkg/protocol"
	"github.com/ecstasoy/oneshot/pkg/transport"
	"github.com/ecstasoy/oneshot/pkg/transport/tcp"
)

// Client connects to the server, reads once and prints what arrived.
type Client struct {
	opts         *clientOptions
	interceptors []interceptor.Interceptor
}

func NewClient(opts ...Option) *Client {
	options := defaultOptions()
	for _, o := range opts {
		o(options)
	}
	if options.logger == nil {
		options.logger = interceptor.NewLogger(nil)
	}

	return &Client{opts: options}
}

func (c *Client) Use(interceptors ...interceptor.Interceptor) {
	c.interceptors = append(c.interceptors, interceptors...)
}

// Run always reaches the print step. A failed connect is reported and the
// receive still runs, yielding no data; the returned error joins every
// recoverable failure seen along the way.
func (c *Client) Run(ctx context.Context) error {
	cfg := c.opts.config

	t := tcp.NewClient(cfg.Address(),
		transport.WithDialTimeout(cfg.DialTimeout.Duration),
		transport.WithReadTimeout(cfg.ReadTimeout.Duration),
		transport.WithBufferSize(cfg.BufferSize),
		transport.WithFullRead(cfg.FullRead),
		transport.WithClientInterceptors(c.interceptors...),
	)
	defer func() {
		if err := t.Close(); err != nil {
			c.opts.logger.Errorf("close: %v", err)
		}
	}()

	var errs []error

	if err := t.Dial(ctx, ""); err != nil {
		fmt.Fprintln(c.opts.stdout, connectFailedMessage)
		c.opts.logger.Errorf("%v", err)
		errs = append(errs, err)
	}

	data, err := t.Receive(ctx)
	if err != nil {
		c.opts.logger.Errorf("receive: %s", describe(err))
		errs = append(errs, err)
	}

	fmt.Fprintf(c.opts.stdout, "The server_response is %s\n", protocol.Text(data, len(data)))
	t.MarkPrinted()

	return errors.Join(errs...)
}
