package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ecstasoy/oneshot/pkg/config"
	"github.com/ecstasoy/oneshot/pkg/interceptor"
	"github.com/ecstasoy/oneshot/pkg/server"
)

type args struct {
	Config string `arg:"-c,--config" help:"YAML config file; defaults to port 9602, backlog 5, 256-byte buffer"`
}

func (args) Description() string {
	return "Accepts one TCP connection, sends it a fixed message and exits."
}

func run() int {
	var a args
	arg.MustParse(&a)

	cfg, err := config.Load(a.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := interceptor.NewLogger(os.Stderr)
	reg := prometheus.NewRegistry()
	metrics, err := interceptor.NewMetrics(reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cfg.Metrics.Address != "" {
		if _, err := interceptor.ServeMetrics(ctx, cfg.Metrics.Address, reg, logger); err != nil {
			logger.Errorf("metrics disabled: %v", err)
		}
	}

	srv := server.NewServer(server.WithConfig(cfg.Server), server.WithLogger(logger))
	srv.Use(interceptor.Recovery(), interceptor.Logging(logger), metrics.Interceptor())

	return server.ExitCode(srv.Run(ctx))
}

func main() {
	os.Exit(run())
}
