//Kunhua Huang 2026

package tcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ecstasoy/oneshot/pkg/interceptor"
	"github.com/ecstasoy/oneshot/pkg/protocol"
	"github.com/ecstasoy/oneshot/pkg/transport"
)

const roleClient = "client"

type Client struct {
	address   string
	opts      *transport.ClientOptions
	conn      net.Conn
	connected bool
	mu        sync.RWMutex // protects connected and conn
	state     stateMachine
}

var _ transport.ClientTransport = (*Client)(nil)

func NewClient(address string, options ...transport.ClientOption) *Client {
	opts := transport.DefaultClientOptions()

	for _, o := range options {
		o(opts)
	}

	return &Client{
		address: address,
		opts:    opts,
	}
}

// Dial makes a single connection attempt. A failure is returned as a
// recoverable error: the client stays usable and Receive reports
// protocol.ErrNotConnected.
func (c *Client) Dial(ctx context.Context, address string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return fmt.Errorf("already connected to: %s", c.conn.RemoteAddr().String())
	}

	addr := address
	if addr == "" {
		addr = c.address
	}
	c.address = addr

	dialer := &net.Dialer{
		Timeout: c.opts.DialTimeout,
	}

	var conn net.Conn
	call := &interceptor.Call{Role: roleClient, Op: protocol.OpConnect, Addr: addr}
	_, err := c.opts.Chain.Intercept(ctx, call, func(ctx context.Context, _ *interceptor.Call) (int, error) {
		var err error
		conn, err = dialer.DialContext(ctx, "tcp", addr)
		return 0, err
	})
	c.state.set(StateConnectAttempted)
	if err != nil {
		return protocol.NewError(protocol.OpConnect, protocol.Recoverable, addr, err)
	}

	c.conn = conn
	c.connected = true

	return nil
}

// Receive reads up to ReadBufferSize bytes and returns only the bytes that
// arrived. Without a connection it returns no data and ErrNotConnected.
func (c *Client) Receive(ctx context.Context) ([]byte, error) {
	c.mu.RLock()
	conn := c.conn
	connected := c.connected
	addr := c.address
	c.mu.RUnlock()

	if !connected || conn == nil {
		c.state.set(StateReceived)
		return nil, protocol.NewError(protocol.OpReceive, protocol.Recoverable, addr, protocol.ErrNotConnected)
	}

	if err := c.setReadDeadline(ctx, conn); err != nil {
		return nil, protocol.NewError(protocol.OpReceive, protocol.Recoverable, addr, err)
	}
	defer conn.SetReadDeadline(time.Time{})

	// interrupt a blocked read when ctx is canceled
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetReadDeadline(time.Unix(1, 0))
		case <-done:
		}
	}()

	buf := make([]byte, c.opts.ReadBufferSize)
	call := &interceptor.Call{Role: roleClient, Op: protocol.OpReceive, Addr: addr}
	n, err := c.opts.Chain.Intercept(ctx, call, func(context.Context, *interceptor.Call) (int, error) {
		if c.opts.FullRead {
			return readFull(conn, buf)
		}
		n, err := conn.Read(buf)
		if errors.Is(err, io.EOF) {
			err = nil
		}
		return n, err
	})
	c.state.set(StateReceived)

	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return buf[:n], protocol.NewError(protocol.OpReceive, protocol.Recoverable, addr, err)
	}

	return buf[:n], nil
}

func (c *Client) setReadDeadline(ctx context.Context, conn net.Conn) error {
	var deadline time.Time
	if c.opts.ReadTimeout > 0 {
		deadline = time.Now().Add(c.opts.ReadTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if deadline.IsZero() {
		return nil
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("set read deadline failed: %w", err)
	}
	return nil
}

// MarkPrinted records that the received text has been displayed.
func (c *Client) MarkPrinted() {
	c.state.set(StatePrinted)
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.set(StateClosed)

	if !c.connected {
		return nil
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close connection failed: %w", err)
		}
		c.conn = nil
	}

	c.connected = false

	return nil
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) LocalAddr() net.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn != nil {
		return c.conn.LocalAddr()
	}

	return nil
}

func (c *Client) RemoteAddr() net.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn != nil {
		return c.conn.RemoteAddr()
	}

	return nil
}

func (c *Client) State() State {
	return c.state.get()
}

func (c *Client) Transitions() []State {
	return c.state.transitions()
}

// readFull fills buf or stops early at EOF.
func readFull(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}
