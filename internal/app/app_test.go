package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-manager-hub/internal/config"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

func testConfig(apiBaseURL string) config.Config {
	return config.Config{
		AppEnv:                   config.EnvDev,
		ServiceName:              "fantasy-manager-hub",
		HTTPAddr:                 ":0",
		ReadTimeout:              5 * time.Second,
		WriteTimeout:             5 * time.Second,
		APIBaseURL:               apiBaseURL,
		APITimeout:               time.Second,
		APICircuitEnabled:        true,
		APICircuitFailureCount:   5,
		APICircuitOpenTimeout:    time.Second,
		APICircuitHalfOpenMaxReq: 1,
		SearchDebounce:           10 * time.Millisecond,
		FilterDebounce:           10 * time.Millisecond,
		LiveWorkerPoolSize:       4,
		LivePingInterval:         time.Second,
		MetricsEnabled:           true,
	}
}

func TestNewHTTPServer_ServesPagesFromBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`{"title":"Hub","message":"Win your league"}`))
		case "/health":
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	application, err := NewHTTPServer(testConfig(backend.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = application.Shutdown(ctx)
	})

	for _, tc := range []struct {
		path   string
		status int
		want   string
	}{
		{path: "/", status: http.StatusOK, want: "Win your league"},
		{path: "/readyz", status: http.StatusOK},
		{path: "/healthz", status: http.StatusOK},
		{path: "/metrics", status: http.StatusOK, want: "fmh_"},
	} {
		rec := httptest.NewRecorder()
		application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, rec.Code)
		}
		if tc.want != "" && !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("%s: expected body to contain %q", tc.path, tc.want)
		}
	}
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.HTTPAddr = ""
	if _, err := NewHTTPServer(cfg, nil); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
