// Package web serves the server-rendered pages, their live websocket sessions and the operational
// endpoints.
package web

import (
	"net/http"

	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/metrics"
)

type RouterConfig struct {
	MetricsEnabled bool
}

func NewRouter(
	handler *Handler,
	live *Live,
	logger *logging.Logger,
	recorder *metrics.Recorder,
	cfg RouterConfig,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, recorder, cfg.MetricsEnabled)
	registerPageRoutes(mux, handler)
	registerLiveRoutes(mux, live)

	return RequestTracing(RequestLogging(logger, recorder, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "web.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
