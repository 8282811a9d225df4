package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("API_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvDev {
		t.Fatalf("unexpected AppEnv: %q", cfg.AppEnv)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected APIBaseURL: %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("unexpected APITimeout: %s", cfg.APITimeout)
	}
	if cfg.SearchDebounce != 250*time.Millisecond || cfg.FilterDebounce != 300*time.Millisecond {
		t.Fatalf("unexpected debounce delays: search=%s filter=%s", cfg.SearchDebounce, cfg.FilterDebounce)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected pyroscope app name to default to service name, got %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_APIBaseURLValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	for _, raw := range []string{"ftp://example.com", "http://", "not a url"} {
		t.Setenv("API_BASE_URL", raw)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for API_BASE_URL=%q", raw)
		}
	}
}

func TestLoad_APIBaseURLTrimsTrailingSlash(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_BASE_URL", "https://api.fmh.test/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIBaseURL != "https://api.fmh.test" {
		t.Fatalf("unexpected APIBaseURL: %q", cfg.APIBaseURL)
	}
}

func TestLoad_RejectsNonPositiveValues(t *testing.T) {
	cases := map[string]string{
		"API_TIMEOUT":               "0s",
		"API_CIRCUIT_FAILURE_COUNT": "0",
		"SEARCH_DEBOUNCE":           "-1ms",
		"LIVE_WORKER_POOL_SIZE":     "0",
		"LIVE_PING_INTERVAL":        "0s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1,uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_LiveSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("LIVE_ALLOWED_ORIGINS", "https://fmh.test, https://www.fmh.test,,")
	t.Setenv("LIVE_WORKER_POOL_SIZE", "8")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.LiveAllowedOrigins) != 2 || cfg.LiveAllowedOrigins[1] != "https://www.fmh.test" {
		t.Fatalf("unexpected LiveAllowedOrigins: %v", cfg.LiveAllowedOrigins)
	}
	if cfg.LiveWorkerPoolSize != 8 {
		t.Fatalf("unexpected LiveWorkerPoolSize: %d", cfg.LiveWorkerPoolSize)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
}
