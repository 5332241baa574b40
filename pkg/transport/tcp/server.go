// Kunhua Huang 2026

package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ecstasoy/oneshot/pkg/interceptor"
	"github.com/ecstasoy/oneshot/pkg/protocol"
	"github.com/ecstasoy/oneshot/pkg/transport"
)

const roleServer = "server"

// Server offers one message to the first client that connects.
type Server struct {
	address  string
	opts     *transport.ServerOptions
	listener net.Listener
	mu       sync.RWMutex
	serving  bool
	closed   bool
	state    stateMachine
}

var _ transport.ServerTransport = (*Server)(nil)

func NewServer(options ...transport.ServerOption) *Server {
	opts := transport.DefaultServerOptions()

	for _, o := range options {
		o(opts)
	}

	return &Server{
		opts: opts,
	}
}

// Listen creates the endpoint, binds addr and starts listening with the
// configured backlog. Every failure is fatal and leaves nothing open.
func (s *Server) Listen(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return fmt.Errorf("already listening on %s", s.address)
	}
	if s.closed {
		return fmt.Errorf("server closed")
	}

	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		s.state.set(StateFailed)
		return protocol.NewError(protocol.OpSocket, protocol.Fatal, addr, err)
	}

	var ep *endpoint
	err = s.step(ctx, protocol.OpSocket, addr, func() error {
		var serr error
		ep, serr = newEndpoint(tcpAddr)
		return serr
	})
	if err != nil {
		s.state.set(StateFailed)
		return err
	}

	ln, err := s.bindAndListen(ctx, ep, tcpAddr, addr)
	if err != nil {
		_ = ep.Close()
		s.state.set(StateFailed)
		return err
	}

	s.listener = ln
	s.address = ln.Addr().String()
	s.state.set(StateListening)

	return nil
}

func (s *Server) bindAndListen(ctx context.Context, ep *endpoint, tcpAddr *net.TCPAddr, addr string) (net.Listener, error) {
	if s.opts.ReuseAddr {
		if err := s.step(ctx, protocol.OpSetsockopt, addr, ep.setReuseAddr); err != nil {
			return nil, err
		}
	}

	if err := s.step(ctx, protocol.OpBind, addr, func() error { return ep.bind(tcpAddr) }); err != nil {
		return nil, err
	}
	s.state.set(StateBound)

	var ln net.Listener
	err := s.step(ctx, protocol.OpListen, addr, func() error {
		if err := ep.listen(s.opts.Backlog); err != nil {
			return err
		}
		var err error
		ln, err = ep.listener()
		return err
	})
	if err != nil {
		return nil, err
	}

	return ln, nil
}

// Serve blocks until exactly one client connects, writes message to it and
// closes that connection. It returns the number of bytes written.
func (s *Server) Serve(ctx context.Context, message []byte) (int, error) {
	s.mu.Lock()

	if s.listener == nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("not listening, call Listen() first")
	}

	if s.serving {
		s.mu.Unlock()
		return 0, fmt.Errorf("already serving on %s", s.address)
	}

	s.serving = true
	listener := s.listener
	s.mu.Unlock()

	conn, err := s.accept(ctx, listener)
	if err != nil {
		s.state.set(StateFailed)
		return 0, err
	}
	defer conn.Close()
	s.state.set(StateAccepted)

	n, err := s.send(ctx, conn, message)
	if err != nil {
		s.state.set(StateFailed)
		return n, err
	}
	s.state.set(StateSent)

	return n, nil
}

func (s *Server) accept(ctx context.Context, listener net.Listener) (net.Conn, error) {
	if s.opts.AcceptTimeout > 0 {
		if dl, ok := listener.(interface{ SetDeadline(time.Time) error }); ok {
			if err := dl.SetDeadline(time.Now().Add(s.opts.AcceptTimeout)); err != nil {
				return nil, fmt.Errorf("set accept deadline failed: %w", err)
			}
		}
	}

	// unblock Accept when ctx is canceled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = listener.Close()
		case <-done:
		}
	}()

	var conn net.Conn
	err := s.step(ctx, protocol.OpAccept, s.address, func() error {
		var err error
		conn, err = listener.Accept()
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (s *Server) send(ctx context.Context, conn transport.Connection, message []byte) (int, error) {
	call := &interceptor.Call{Role: roleServer, Op: protocol.OpSend, Addr: conn.RemoteAddr().String()}

	n, err := s.opts.Chain.Intercept(ctx, call, func(ctx context.Context, call *interceptor.Call) (int, error) {
		if s.opts.FullWrite {
			return writeFull(conn, message)
		}
		return conn.Write(message)
	})
	if err != nil {
		return n, protocol.NewError(protocol.OpSend, protocol.Fatal, call.Addr, err)
	}

	return n, nil
}

// step runs one primitive through the interceptor chain and types its error.
func (s *Server) step(ctx context.Context, op protocol.Op, addr string, fn func() error) error {
	call := &interceptor.Call{Role: roleServer, Op: op, Addr: addr}

	_, err := s.opts.Chain.Intercept(ctx, call, func(context.Context, *interceptor.Call) (int, error) {
		return 0, fn()
	})
	if err != nil {
		var perr *protocol.Error
		if errors.As(err, &perr) {
			return err
		}
		return protocol.NewError(op, protocol.Fatal, addr, err)
	}

	return nil
}

func (s *Server) Close() error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return nil
	}

	s.closed = true
	listener := s.listener
	s.mu.Unlock()

	s.state.set(StateClosed)

	if listener != nil {
		err := listener.Close()
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("close listener failed: %w", err)
		}
	}

	return nil
}

func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

func (s *Server) State() State {
	return s.state.get()
}

// Transitions returns every state the server has entered, in order.
func (s *Server) Transitions() []State {
	return s.state.transitions()
}

func writeFull(w transport.Connection, b []byte) (int, error) {
	total := 0
	for len(b) > 0 {
		n, err := w.Write(b)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, protocol.ErrShortWrite
		}
		b = b[n:]
	}
	return total, nil
}
