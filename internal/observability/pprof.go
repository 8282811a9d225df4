package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/riskibarqy/fantasy-manager-hub/internal/config"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

// namedProfiles are served through pprof.Handler in addition to the index.
var namedProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// DebugServer serves net/http/pprof on its own listener, apart from the page server.
type DebugServer struct {
	srv    *http.Server
	addr   string
	logger *logging.Logger
}

// StartDebugServer binds PPROF_ADDR and serves profiles in the background. It returns nil when
// profiling is disabled; a nil *DebugServer is safe to shut down.
func StartDebugServer(cfg config.Config, logger *logging.Logger) (*DebugServer, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil, nil
	}

	ln, err := net.Listen("tcp", cfg.PprofAddr)
	if err != nil {
		return nil, fmt.Errorf("listen pprof on %s: %w", cfg.PprofAddr, err)
	}

	d := &DebugServer{
		srv: &http.Server{
			Handler:           debugMux(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr:   ln.Addr().String(),
		logger: logger,
	}

	go func() {
		logger.Info("pprof server starting", "addr", d.addr)
		if err := d.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof server failed", "error", err)
		}
	}()

	return d, nil
}

func debugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("POST /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	for _, name := range namedProfiles {
		mux.Handle("GET /debug/pprof/"+name, pprof.Handler(name))
	}
	return mux
}

// Addr is the bound address, useful when PPROF_ADDR asked for port 0.
func (d *DebugServer) Addr() string {
	if d == nil {
		return ""
	}
	return d.addr
}

func (d *DebugServer) Shutdown(ctx context.Context) error {
	if d == nil {
		return nil
	}
	if err := d.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown pprof server: %w", err)
	}
	d.logger.Info("pprof server stopped")
	return nil
}
