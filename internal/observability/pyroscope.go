package observability

import (
	"fmt"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/fantasy-manager-hub/internal/config"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

// mutexProfileFraction samples one in five contention events while profiling is on.
const mutexProfileFraction = 5

// InitPyroscope starts continuous profiling when enabled. The returned stop func is never nil.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	prevFraction := runtime.SetMutexProfileFraction(mutexProfileFraction)
	profiler, err := pyroscope.Start(pyroscopeConfig(cfg, logger))
	if err != nil {
		runtime.SetMutexProfileFraction(prevFraction)
		return func() error { return nil }, fmt.Errorf("start pyroscope: %w", err)
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
		"upload_rate", cfg.PyroscopeUploadRate.String(),
	)

	return func() error {
		defer runtime.SetMutexProfileFraction(prevFraction)
		return profiler.Stop()
	}, nil
}

func pyroscopeConfig(cfg config.Config, logger *logging.Logger) pyroscope.Config {
	return pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Logger:            pyroscopeLogger{logger: logger.Named("pyroscope")},
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
			"version": cfg.ServiceVersion,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
		},
	}
}

// pyroscopeLogger routes the profiler's printf-style output into the structured logger.
type pyroscopeLogger struct {
	logger *logging.Logger
}

func (l pyroscopeLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Errorf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
