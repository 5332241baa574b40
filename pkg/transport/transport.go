// Kunhua Huang 2025

package transport

import (
	"context"
	"io"
	"net"
	"time"
)

// ClientTransport connects once and receives once.
type ClientTransport interface {
	Dial(ctx context.Context, addr string) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
	IsConnected() bool
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// ServerTransport binds, listens, and hands a single message to the first
// connection it accepts.
type ServerTransport interface {
	Listen(ctx context.Context, addr string) error
	Serve(ctx context.Context, message []byte) (int, error)
	Close() error
	Addr() net.Addr
}

// Connection embeds io.ReadWriter and io.Closer to use std interfaces for network connections
type Connection interface {
	io.ReadWriter
	io.Closer

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
	SetDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}
