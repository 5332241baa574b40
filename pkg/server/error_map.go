// Kunhua Huang 2026

package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

// failureMessage renders err the way perror(3) would, naming the failed step.
func failureMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "Interrupted: " + err.Error()
	}

	op, ok := protocol.OpOf(err)
	if !ok {
		return fmt.Sprintf("Server failed: %v", err)
	}

	var perr *protocol.Error
	errors.As(err, &perr)

	switch op {
	case protocol.OpSocket, protocol.OpSetsockopt:
		return fmt.Sprintf("Socket creation failed: %v", perr.Err)
	case protocol.OpBind:
		return fmt.Sprintf("Bind failed: %v", perr.Err)
	case protocol.OpListen:
		return fmt.Sprintf("Listen failed: %v", perr.Err)
	case protocol.OpAccept:
		return fmt.Sprintf("Accept failed: %v", perr.Err)
	case protocol.OpSend:
		return fmt.Sprintf("Send failed: %v", perr.Err)
	default:
		return fmt.Sprintf("%s failed: %v", op, perr.Err)
	}
}

// ExitCode maps the result of Run to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 0
	}
	if protocol.IsFatal(err) {
		return 1
	}
	return 0
}
