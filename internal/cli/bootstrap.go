package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/sitetrack/internal/app"
	"github.com/alexanderramin/sitetrack/internal/config"
	"github.com/alexanderramin/sitetrack/internal/gateway"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ready opens the backend on first use. It loads the config file, applies
// environment and flag overrides, opens the log file and starts the metrics
// listener when one is configured.
func (a *App) ready(ctx context.Context) error {
	if a.Gateway != nil {
		if a.Projects == nil {
			a.Projects = service.NewProjectService(a.Gateway, a.Config.TemplateSheet, service.NewLogUseCaseObserver(a.Logger))
		}
		return nil
	}

	path := a.ConfigPath
	if path == "" {
		path = config.DefaultPath(a.Home)
	}
	cfg, err := config.Load(path, a.Home)
	if err != nil {
		return err
	}
	if a.BackendOverride != "" {
		cfg.Backend = strings.ToLower(strings.TrimSpace(a.BackendOverride))
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	a.Config = cfg

	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.Logger = logger
	a.closers = append(a.closers, closeLog)

	observers := gateway.MultiObserver{gateway.NewLogObserver(logger)}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		metrics, err := gateway.NewMetricsObserver(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		stop, err := serveMetrics(cfg.Metrics.Addr, reg, logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, stop)
		observers = append(observers, metrics)
	}

	gw, closeGW, err := gateway.Open(ctx, cfg)
	if err != nil {
		logger.Error("backend_open", "backend", cfg.Backend, "error", err.Error())
		return fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	a.closers = append(a.closers, closeGW)
	logger.Info("backend_open", "backend", cfg.Backend)

	a.Gateway = gateway.Observe(gw, observers)
	a.Projects = service.NewProjectService(a.Gateway, cfg.TemplateSheet, service.NewLogUseCaseObserver(logger))
	a.Intents = app.NewLogIntentObserver(logger)
	return nil
}

// openLogger writes slog text records to the configured file so log lines
// never land on the dashboard screen. An empty path discards logs.
func openLogger(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	level, err := (config.Config{Log: cfg}).LogLevel()
	if err != nil {
		return nil, nil, err
	}
	if cfg.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f.Close, nil
}

// serveMetrics exposes reg on addr under /metrics until the returned stop
// function is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) (func() error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening for metrics on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics_server", "addr", addr, "error", err.Error())
		}
	}()
	logger.Info("metrics_server", "addr", ln.Addr().String())

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}
