package web

import (
	"net/http"

	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, recorder *metrics.Recorder, metricsEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	mux.Handle("GET /static/", staticHandler())
	if metricsEnabled && recorder != nil {
		mux.Handle("GET /metrics", recorder.Handler())
	}
}

func registerPageRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /{$}", SecurityHeaders(http.HandlerFunc(handler.Home)))
	mux.Handle("GET /trade-calculator", SecurityHeaders(http.HandlerFunc(handler.TradeCalculator)))
	mux.Handle("GET /trending", SecurityHeaders(http.HandlerFunc(handler.Trending)))
	mux.Handle("GET /roster-analysis", SecurityHeaders(handler.Stub("Roster Analysis")))
	mux.Handle("GET /coach-assistant", SecurityHeaders(handler.Stub("Coach Assistant")))
	mux.Handle("GET /login", SecurityHeaders(handler.Stub("Login")))
	mux.Handle("GET /signup", SecurityHeaders(handler.Stub("Sign Up")))
}

func registerLiveRoutes(mux *http.ServeMux, live *Live) {
	if live == nil {
		return
	}
	mux.HandleFunc("GET /live/{page}", live.Connect)
}
