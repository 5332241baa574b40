// Kunhua Huang 2026

package server

import (
	"context"
	"fmt"

	"github.com/ecstasoy/oneshot/pkg/interceptor"
	"github.com/ecstasoy/oneshot/pkg/protocol"
	"github.com/ecstasoy/oneshot/pkg/transport"
	"github.com/ecstasoy/oneshot/pkg/transport/tcp"
)

// Server binds the configured port, accepts one client, sends it the message
// and returns.
type Server struct {
	opts         *serverOptions
	interceptors []interceptor.Interceptor
}

func NewServer(opts ...Option) *Server {
	options := defaultServerOptions()
	for _, o := range opts {
		o(options)
	}
	if options.logger == nil {
		options.logger = interceptor.NewLogger(options.stderr)
	}

	return &Server{opts: options}
}

// Use adds interceptors around every socket primitive.
// usage:
// srv.Use(
//
//		interceptor.Recovery(),
//		interceptor.Logging(logger),
//		metrics.Interceptor(),
//	)
//
// The interceptors will be executed in the order they are added.
func (s *Server) Use(interceptors ...interceptor.Interceptor) {
	s.interceptors = append(s.interceptors, interceptors...)
}

// Run performs socket → bind → listen → accept → send once. Failures are
// printed perror-style to stderr and returned; see ExitCode.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.opts.config

	message, err := protocol.NewMessage(cfg.Message, cfg.BufferSize)
	if err != nil {
		s.report(err)
		return err
	}

	t := tcp.NewServer(
		transport.WithBacklog(cfg.Backlog),
		transport.WithFullWrite(cfg.FullWrite),
		transport.WithAcceptTimeout(cfg.AcceptTimeout.Duration),
		transport.WithServerInterceptors(s.interceptors...),
	)
	defer func() {
		if err := t.Close(); err != nil {
			s.opts.logger.Errorf("close: %v", err)
		}
	}()

	if err := t.Listen(ctx, cfg.Address()); err != nil {
		s.report(err)
		return err
	}

	s.opts.logger.Infof("[Server] listening on %s (backlog %d)", t.Addr(), cfg.Backlog)
	if s.opts.onReady != nil {
		s.opts.onReady(t.Addr())
	}

	n, err := t.Serve(ctx, message)
	if err != nil {
		s.report(err)
		return err
	}

	if n < len(message) {
		s.opts.logger.Infof("[Server] short write: sent %d of %d bytes", n, len(message))
	} else {
		s.opts.logger.Infof("[Server] sent %d bytes", n)
	}

	return nil
}

func (s *Server) report(err error) {
	fmt.Fprintln(s.opts.stderr, failureMessage(err))
}
