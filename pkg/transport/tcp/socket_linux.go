//go:build linux

package tcp

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// endpoint owns a raw stream socket until it is converted into a net.Listener.
// bind and listen are separate calls so each can fail on its own and the
// backlog reaches listen(2) unchanged.
type endpoint struct {
	fd int
}

func newEndpoint(addr *net.TCPAddr) (*endpoint, error) {
	fd, err := unix.Socket(family(addr), unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	return &endpoint{fd: fd}, nil
}

func family(addr *net.TCPAddr) int {
	if addr.IP == nil || addr.IP.To4() != nil {
		return unix.AF_INET
	}
	return unix.AF_INET6
}

func (e *endpoint) setReuseAddr() error {
	if err := unix.SetsockoptInt(e.fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return os.NewSyscallError("setsockopt", err)
	}
	return nil
}

func (e *endpoint) bind(addr *net.TCPAddr) error {
	var sa unix.Sockaddr
	if family(addr) == unix.AF_INET {
		sa4 := &unix.SockaddrInet4{Port: addr.Port}
		if addr.IP != nil {
			copy(sa4.Addr[:], addr.IP.To4())
		}
		sa = sa4
	} else {
		sa6 := &unix.SockaddrInet6{Port: addr.Port}
		copy(sa6.Addr[:], addr.IP.To16())
		sa = sa6
	}

	if err := unix.Bind(e.fd, sa); err != nil {
		return os.NewSyscallError("bind", err)
	}
	return nil
}

func (e *endpoint) listen(backlog int) error {
	if err := unix.Listen(e.fd, backlog); err != nil {
		return os.NewSyscallError("listen", err)
	}
	return nil
}

// listener hands the socket to the runtime poller. The endpoint is closed
// afterwards either way; on success the listener holds its own duplicate fd.
func (e *endpoint) listener() (net.Listener, error) {
	f := os.NewFile(uintptr(e.fd), "oneshot-listener")
	if f == nil {
		return nil, fmt.Errorf("os.NewFile returned nil")
	}
	e.fd = -1
	defer f.Close()

	return net.FileListener(f)
}

func (e *endpoint) Close() error {
	if e.fd < 0 {
		return nil
	}
	err := unix.Close(e.fd)
	e.fd = -1
	return err
}
