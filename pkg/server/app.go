package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarTrade/internal/service/ratelimit"
	"MarTrade/pkg/config"
	xhttp "MarTrade/pkg/http"
	"MarTrade/pkg/http/middleware"
	applogger "MarTrade/pkg/logger"
)

const (
	limiterPruneInterval = time.Minute
	limiterIdleTTL       = 10 * time.Minute
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
	limiter     *ratelimit.Limiter
	closers     []io.Closer
}

// New creates a new App instance with all dependencies. Closers are closed in
// order after the HTTP server has stopped; nil entries are skipped.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	limiter *ratelimit.Limiter,
	closers ...io.Closer,
) *App {
	if log == nil {
		log = applogger.Nop()
	}
	if limiter == nil {
		limiter = ratelimit.New()
	}
	return &App{
		cfg:         cfg,
		log:         log,
		httpHandler: handler,
		limiter:     limiter,
		closers:     closers,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithLogger(a.log),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithMiddleware(middleware.RateLimit(a.limiter, a.cfg.Server.RateLimit.Burst, a.cfg.Server.RateLimit.PerSecond, xhttp.TooManyRequestsResponse)),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("martrade started",
		applogger.String("env", a.cfg.Environment),
		applogger.Strings("symbols", a.cfg.TwelveData.Symbols),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
		applogger.String("chart_cache", a.cfg.ChartCache.Backend),
	)

	go a.pruneLimiter(ctx)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) pruneLimiter(ctx context.Context) {
	t := time.NewTicker(limiterPruneInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Prune(limiterIdleTTL); n > 0 {
				a.log.Debug("rate limiter pruned", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	// Stop accepting requests before closing what they depend on.
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for _, c := range a.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
