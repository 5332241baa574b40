// Kunhua Huang 2026

package interceptor

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

type MetricsCollector struct {
	opsTotal   *prometheus.CounterVec
	bytesTotal *prometheus.CounterVec
	opDuration *prometheus.HistogramVec
}

// NewMetrics registers the socket metrics on reg, reusing collectors that are
// already registered there. A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*MetricsCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	opsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneshot_socket_ops_total",
			Help: "Total number of socket primitive calls",
		},
		[]string{"role", "op", "result"},
	)
	bytesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oneshot_bytes_total",
			Help: "Bytes moved across the connection",
		},
		[]string{"role", "direction"},
	)
	opDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oneshot_socket_op_duration_seconds",
			Help:    "Duration of socket primitive calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"role", "op"},
	)

	m := &MetricsCollector{}
	var err error
	if m.opsTotal, err = register(reg, opsTotal); err != nil {
		return nil, err
	}
	if m.bytesTotal, err = register(reg, bytesTotal); err != nil {
		return nil, err
	}
	if m.opDuration, err = register(reg, opDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *MetricsCollector) Interceptor() Interceptor {
	return func(ctx context.Context, call *Call, invoker Invoker) (int, error) {
		start := time.Now()

		n, err := invoker(ctx, call)

		duration := time.Since(start).Seconds()

		result := "success"
		if err != nil {
			result = "error"
		}

		op := call.Op.String()
		m.opsTotal.WithLabelValues(call.Role, op, result).Inc()
		m.opDuration.WithLabelValues(call.Role, op).Observe(duration)

		if n > 0 {
			switch call.Op {
			case protocol.OpSend:
				m.bytesTotal.WithLabelValues(call.Role, "out").Add(float64(n))
			case protocol.OpReceive:
				m.bytesTotal.WithLabelValues(call.Role, "in").Add(float64(n))
			}
		}

		return n, err
	}
}
