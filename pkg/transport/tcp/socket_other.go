//go:build !linux

package tcp

import (
	"context"
	"net"
)

// endpoint without raw socket access: bind and listen collapse into one
// net.ListenConfig call at listen time, and the OS picks the backlog.
type endpoint struct {
	addr *net.TCPAddr
	ln   net.Listener
}

func newEndpoint(addr *net.TCPAddr) (*endpoint, error) {
	return &endpoint{addr: addr}, nil
}

func (e *endpoint) setReuseAddr() error { return nil }

func (e *endpoint) bind(addr *net.TCPAddr) error {
	e.addr = addr
	return nil
}

func (e *endpoint) listen(int) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", e.addr.String())
	if err != nil {
		return err
	}
	e.ln = ln
	return nil
}

func (e *endpoint) listener() (net.Listener, error) {
	ln := e.ln
	e.ln = nil
	return ln, nil
}

func (e *endpoint) Close() error {
	if e.ln == nil {
		return nil
	}
	err := e.ln.Close()
	e.ln = nil
	return err
}
