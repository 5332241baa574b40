// Kunhua Huang 2026

package protocol

import (
	"errors"
	"fmt"
)

// Op names the socket primitive a failure came from.
type Op byte

const (
	OpSocket Op = iota
	OpSetsockopt
	OpBind
	OpListen
	OpAccept
	OpConnect
	OpSend
	OpReceive
	OpClose
)

func (o Op) String() string {
	switch o {
	case OpSocket:
		return "socket"
	case OpSetsockopt:
		return "setsockopt"
	case OpBind:
		return "bind"
	case OpListen:
		return "listen"
	case OpAccept:
		return "accept"
	case OpConnect:
		return "connect"
	case OpSend:
		return "send"
	case OpReceive:
		return "receive"
	case OpClose:
		return "close"
	default:
		return fmt.Sprintf("unknown(%d)", o)
	}
}

type Severity byte

const (
	// Recoverable failures are reported and the caller carries on.
	Recoverable Severity = iota
	// Fatal failures end the program with a non-zero exit status.
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "recoverable"
}

var (
	ErrNotConnected    = errors.New("socket is not connected")
	ErrShortWrite      = errors.New("short write")
	ErrMessageTooLarge = errors.New("message does not fit the buffer")
)

type Error struct {
	Op       Op
	Severity Severity
	Addr     string
	Err      error
}

func NewError(op Op, severity Severity, addr string, err error) *Error {
	return &Error{
		Op:       op,
		Severity: severity,
		Addr:     addr,
		Err:      err,
	}
}

func (e *Error) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err carries a fatal socket error. Errors that are
// not *Error are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Severity == Fatal
	}
	return true
}

// OpOf returns the primitive that produced err, if any.
func OpOf(err error) (Op, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Op, true
	}
	return 0, false
}
