package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ecstasoy/oneshot/pkg/client"
	"github.com/ecstasoy/oneshot/pkg/config"
	"github.com/ecstasoy/oneshot/pkg/interceptor"
)

type args struct {
	Config string `arg:"-c,--config" help:"YAML config file; defaults to 127.0.0.1:9602 and a 256-byte buffer"`
}

func (args) Description() string {
	return "Connects to the one-shot server, reads once and prints what arrived."
}

func main() {
	var a args
	arg.MustParse(&a)

	cfg, err := config.Load(a.Config)
	if err != nil {
		// no non-zero exit path: fall back to the built-in defaults
		fmt.Fprintln(os.Stderr, err)
		cfg = config.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := interceptor.NewLogger(os.Stderr)
	reg := prometheus.NewRegistry()
	metrics, err := interceptor.NewMetrics(reg)
	if err != nil {
		logger.Errorf("metrics: %v", err)
	}

	if cfg.Metrics.Address != "" {
		if _, err := interceptor.ServeMetrics(ctx, cfg.Metrics.Address, reg, logger); err != nil {
			logger.Errorf("metrics disabled: %v", err)
		}
	}

	cli := client.NewClient(client.WithConfig(cfg.Client), client.WithLogger(logger))
	cli.Use(interceptor.Recovery(), interceptor.Logging(logger))
	if metrics != nil {
		cli.Use(metrics.Interceptor())
	}

	// failures were already reported; the client always exits 0
	_ = cli.Run(ctx)
}
