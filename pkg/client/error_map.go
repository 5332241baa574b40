// Kunhua Huang 2026

package client

import (
	"context"
	"errors"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

const connectFailedMessage = "Failed to connect to server"

// describe gives a short reason for a receive that produced no text.
func describe(err error) string {
	switch {
	case errors.Is(err, protocol.ErrNotConnected):
		return "no connection, nothing received"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, context.DeadlineExceeded):
		return "timed out waiting for data"
	default:
		return err.Error()
	}
}
