// Kunhua Huang 2026

package interceptor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type defaultLogger struct {
	mu  sync.Mutex
	out io.Writer
}

// NewLogger returns a Logger writing [INFO]/[ERROR] lines to w.
func NewLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &defaultLogger{out: w}
}

func (l *defaultLogger) Infof(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[INFO] "+format+"\n", args...)
}

func (l *defaultLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[ERROR] "+format+"\n", args...)
}

func Logging(logger Logger) Interceptor {
	if logger == nil {
		logger = NewLogger(nil)
	}

	return func(ctx context.Context, call *Call, invoker Invoker) (int, error) {
		start := time.Now()

		logger.Infof("→ %s %s [%s]", call.Role, call.Op, call.Addr)

		n, err := invoker(ctx, call)

		duration := time.Since(start)

		if err != nil {
			logger.Errorf("✗ %s %s [%s] failed in %v: %v", call.Role, call.Op, call.Addr, duration, err)
		} else {
			logger.Infof("✓ %s %s [%s] %d bytes in %v", call.Role, call.Op, call.Addr, n, duration)
		}

		return n, err
	}
}
