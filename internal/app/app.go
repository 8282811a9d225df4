package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-manager-hub/external/fmhapi"
	"github.com/riskibarqy/fantasy-manager-hub/internal/config"
	"github.com/riskibarqy/fantasy-manager-hub/internal/interfaces/web"
	idgen "github.com/riskibarqy/fantasy-manager-hub/internal/platform/id"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

// App owns the HTTP server together with the resources that outlive a single request.
type App struct {
	Server *http.Server
	Live   *web.Live
	pool   *ants.Pool
	logger *logging.Logger
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	pool, err := ants.NewPool(cfg.LiveWorkerPoolSize)
	if err != nil {
		return nil, fmt.Errorf("create live worker pool: %w", err)
	}

	recorder := metrics.NewRecorder()
	client := fmhapi.NewClient(fmhapi.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Logger:  logger,
		Metrics: recorder,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APICircuitEnabled,
			FailureThreshold: cfg.APICircuitFailureCount,
			OpenTimeout:      cfg.APICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APICircuitHalfOpenMaxReq,
		},
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	homeSvc := usecase.NewHomeService(client, logger)
	handler := web.NewHandler(homeSvc, client, renderer, logger)
	live := web.NewLive(
		web.LiveConfig{
			AllowedOrigins: cfg.LiveAllowedOrigins,
			PingInterval:   cfg.LivePingInterval,
			SearchDebounce: cfg.SearchDebounce,
			FilterDebounce: cfg.FilterDebounce,
		},
		web.LiveDeps{
			Players:   client,
			Simulator: client,
			Runtime: usecase.Runtime{
				Executor: pool,
				Logger:   logger,
				Stale:    recorder,
			},
			IDs:      idgen.NewUUIDGenerator(),
			Metrics:  recorder,
			Logger:   logger,
			Renderer: renderer,
		},
	)
	router := web.NewRouter(handler, live, logger, recorder, web.RouterConfig{
		MetricsEnabled: cfg.MetricsEnabled,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return &App{
		Server: server,
		Live:   live,
		pool:   pool,
		logger: logger,
	}, nil
}

// Shutdown stops accepting requests, closes open live sessions and drains the worker pool.
func (a *App) Shutdown(ctx context.Context) error {
	serverErr := a.Server.Shutdown(ctx)
	liveErr := a.Live.Shutdown(ctx)

	timeout := time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := a.pool.ReleaseTimeout(timeout); err != nil {
		a.logger.Warn("live worker pool did not drain", "error", err)
	}

	if serverErr != nil {
		return fmt.Errorf("shutdown http server: %w", serverErr)
	}
	if liveErr != nil {
		return fmt.Errorf("shutdown live sessions: %w", liveErr)
	}
	return nil
}
