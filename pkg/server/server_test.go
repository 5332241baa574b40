package server

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecstasoy/oneshot/pkg/config"
	"github.com/ecstasoy/oneshot/pkg/interceptor"
	"github.com/ecstasoy/oneshot/pkg/protocol"
)

func loopbackConfig(port int) config.ServerConfig {
	cfg := config.Default().Server
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	return cfg
}

func TestRunSendsMessage(t *testing.T) {
	var stderr, logs bytes.Buffer
	ready := make(chan net.Addr, 1)

	srv := NewServer(
		WithConfig(loopbackConfig(0)),
		WithStderr(&stderr),
		WithLogger(interceptor.NewLogger(&logs)),
		WithReady(func(addr net.Addr) { ready <- addr }),
	)
	srv.Use(interceptor.Recovery())

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	addr := <-ready
	conn, err := net.DialTimeout("tcp", addr.String(), time.Second)
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, protocol.DefaultBufferSize)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.Equal(t, protocol.DefaultMessage, protocol.Text(buf, n))

	err = <-done
	require.NoError(t, err)
	require.Zero(t, ExitCode(err))
	require.Empty(t, stderr.String())
	require.Contains(t, logs.String(), "[Server] sent 256 bytes")
}

func TestRunBindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	port := occupied.Addr().(*net.TCPAddr).Port
	var stderr bytes.Buffer
	readyCalled := false

	srv := NewServer(
		WithConfig(loopbackConfig(port)),
		WithStderr(&stderr),
		WithLogger(interceptor.NewLogger(&bytes.Buffer{})),
		WithReady(func(net.Addr) { readyCalled = true }),
	)

	err = srv.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, ExitCode(err))
	require.Contains(t, stderr.String(), "Bind failed: ")
	require.False(t, readyCalled)
}

func TestRunMessageTooLarge(t *testing.T) {
	cfg := loopbackConfig(0)
	cfg.BufferSize = 3

	var stderr bytes.Buffer
	err := NewServer(WithConfig(cfg), WithStderr(&stderr)).Run(context.Background())
	require.ErrorIs(t, err, protocol.ErrMessageTooLarge)
	require.Equal(t, 1, ExitCode(err))
	require.Contains(t, stderr.String(), "Server failed")
}

func TestRunCanceledWhileAccepting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan net.Addr, 1)

	var stderr bytes.Buffer
	srv := NewServer(
		WithConfig(loopbackConfig(0)),
		WithStderr(&stderr),
		WithLogger(interceptor.NewLogger(&bytes.Buffer{})),
		WithReady(func(addr net.Addr) { ready <- addr }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	<-ready
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, ExitCode(err))
	require.Contains(t, stderr.String(), "Interrupted")
}

func TestFailureMessage(t *testing.T) {
	cases := map[protocol.Op]string{
		protocol.OpSocket: "Socket creation failed: x",
		protocol.OpBind:   "Bind failed: x",
		protocol.OpListen: "Listen failed: x",
		protocol.OpAccept: "Accept failed: x",
		protocol.OpSend:   "Send failed: x",
		protocol.OpClose:  "close failed: x",
	}
	for op, want := range cases {
		err := protocol.NewError(op, protocol.Fatal, "addr", errString("x"))
		require.Equal(t, want, failureMessage(err), op.String())
	}
}

func TestExitCode(t *testing.T) {
	require.Zero(t, ExitCode(nil))
	require.Zero(t, ExitCode(protocol.NewError(protocol.OpSend, protocol.Recoverable, "", errString("x"))))
	require.Equal(t, 1, ExitCode(protocol.NewError(protocol.OpListen, protocol.Fatal, "", errString("x"))))
}

type errString string

func (e errString) Error() string { return string(e) }

