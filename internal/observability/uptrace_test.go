package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-manager-hub/internal/config"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "fantasy-manager-hub",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSNStaysOff(t *testing.T) {
	shutdown, err := InitUptrace(config.Config{UptraceEnabled: true, UptraceLogsEnabled: true}, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestUptraceOptions(t *testing.T) {
	opts := uptraceOptions(config.Config{UptraceDSN: "https://token@uptrace.dev/1", ServiceName: "fmh"})
	if len(opts) != 7 {
		t.Fatalf("expected 7 options, got %d", len(opts))
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestPyroscopeConfig_TagsAndLogger(t *testing.T) {
	cfg := config.Config{
		AppEnv:                 config.EnvStage,
		ServiceName:            "fantasy-manager-hub",
		ServiceVersion:         "1.4.0",
		PyroscopeAppName:       "fmh-web",
		PyroscopeServerAddress: "http://pyroscope:4040",
		PyroscopeUploadRate:    15 * time.Second,
	}

	got := pyroscopeConfig(cfg, logging.NewNop())
	if got.ApplicationName != "fmh-web" || got.ServerAddress != "http://pyroscope:4040" {
		t.Fatalf("unexpected target: %s @ %s", got.ApplicationName, got.ServerAddress)
	}
	if got.Tags["env"] != config.EnvStage || got.Tags["version"] != "1.4.0" {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	if got.Logger == nil {
		t.Fatalf("expected profiler logs to be routed")
	}
	got.Logger.Errorf("upload failed: %d", 503)
}

func TestStartDebugServer_Disabled(t *testing.T) {
	d, err := StartDebugServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if d != nil {
		t.Fatalf("expected no server when pprof is disabled")
	}
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown nil debug server: %v", err)
	}
}

func TestStartDebugServer_ServesProfiles(t *testing.T) {
	d, err := StartDebugServer(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	t.Cleanup(func() { _ = d.Shutdown(context.Background()) })

	for _, path := range []string{"/debug/pprof/", "/debug/pprof/goroutine?debug=1", "/debug/pprof/heap"} {
		resp, err := http.Get("http://" + d.Addr() + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
