package interceptor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Interceptor {
		return func(ctx context.Context, call *Call, invoker Invoker) (int, error) {
			order = append(order, name+">")
			n, err := invoker(ctx, call)
			order = append(order, "<"+name)
			return n, err
		}
	}

	chain := NewChain(mark("a"), mark("b"))
	n, err := chain.Intercept(context.Background(), &Call{Op: protocol.OpSend}, func(context.Context, *Call) (int, error) {
		order = append(order, "call")
		return 7, nil
	})

	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, []string{"a>", "b>", "call", "<b", "<a"}, order)
}

func TestNilChainInvokesDirectly(t *testing.T) {
	var chain *Chain
	n, err := chain.Intercept(context.Background(), &Call{}, func(context.Context, *Call) (int, error) {
		return 3, nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestRecovery(t *testing.T) {
	chain := NewChain(Recovery())
	n, err := chain.Intercept(context.Background(), &Call{Op: protocol.OpAccept, Addr: "x"}, func(context.Context, *Call) (int, error) {
		panic("boom")
	})

	require.Zero(t, n)
	require.ErrorContains(t, err, "panic recovered: boom")
	require.True(t, protocol.IsFatal(err))
	op, ok := protocol.OpOf(err)
	require.True(t, ok)
	require.Equal(t, protocol.OpAccept, op)
}

func TestLogging(t *testing.T) {
	var out bytes.Buffer
	chain := NewChain(Logging(NewLogger(&out)))
	call := &Call{Role: "client", Op: protocol.OpConnect, Addr: "127.0.0.1:9602"}

	_, err := chain.Intercept(context.Background(), call, func(context.Context, *Call) (int, error) {
		return 0, errors.New("connection refused")
	})
	require.Error(t, err)

	require.Contains(t, out.String(), "[INFO] → client connect [127.0.0.1:9602]")
	require.Contains(t, out.String(), "[ERROR] ✗ client connect [127.0.0.1:9602] failed in")
	require.Contains(t, out.String(), "connection refused")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	chain := NewChain(m.Interceptor())
	ctx := context.Background()

	_, err = chain.Intercept(ctx, &Call{Role: "server", Op: protocol.OpSend}, func(context.Context, *Call) (int, error) {
		return 256, nil
	})
	require.NoError(t, err)

	_, err = chain.Intercept(ctx, &Call{Role: "client", Op: protocol.OpConnect}, func(context.Context, *Call) (int, error) {
		return 0, errors.New("refused")
	})
	require.Error(t, err)

	require.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues("server", "send", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.opsTotal.WithLabelValues("client", "connect", "error")))
	require.Equal(t, 256.0, testutil.ToFloat64(m.bytesTotal.WithLabelValues("server", "out")))
}

func TestNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.opsTotal.WithLabelValues("server", "bind", "success").Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(second.opsTotal.WithLabelValues("server", "bind", "success")))
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	m.opsTotal.WithLabelValues("server", "bind", "success").Inc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := ServeMetrics(ctx, "127.0.0.1:0", reg, NewLogger(&bytes.Buffer{}))
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `oneshot_socket_ops_total{op="bind",result="success",role="server"} 1`)
}
