package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

// Config stores runtime configuration for the web front end.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	APIBaseURL                 string
	APITimeout                 time.Duration
	APICircuitEnabled          bool
	APICircuitFailureCount     int
	APICircuitOpenTimeout      time.Duration
	APICircuitHalfOpenMaxReq   int
	SearchDebounce             time.Duration
	FilterDebounce             time.Duration
	LiveWorkerPoolSize         int
	LiveAllowedOrigins         []string
	LivePingInterval           time.Duration
	MetricsEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_READ_TIMEOUT must be > 0")
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_WRITE_TIMEOUT must be > 0")
	}

	apiBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", "http://127.0.0.1:8000")), "/")
	if err := validateBaseURL(apiBaseURL); err != nil {
		return Config{}, err
	}

	apiTimeout, err := time.ParseDuration(getEnv("API_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse API_TIMEOUT: %w", err)
	}
	if apiTimeout <= 0 {
		return Config{}, fmt.Errorf("API_TIMEOUT must be > 0")
	}

	apiCircuitEnabled, err := strconv.ParseBool(getEnv("API_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse API_CIRCUIT_ENABLED: %w", err)
	}
	apiCircuitFailureCount, err := getEnvAsInt("API_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse API_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if apiCircuitFailureCount <= 0 {
		return Config{}, fmt.Errorf("API_CIRCUIT_FAILURE_COUNT must be > 0")
	}
	apiCircuitOpenTimeout, err := time.ParseDuration(getEnv("API_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse API_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if apiCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("API_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	apiCircuitHalfOpenMaxReq, err := getEnvAsInt("API_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse API_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if apiCircuitHalfOpenMaxReq <= 0 {
		return Config{}, fmt.Errorf("API_CIRCUIT_HALF_OPEN_MAX_REQ must be > 0")
	}

	searchDebounce, err := time.ParseDuration(getEnv("SEARCH_DEBOUNCE", "250ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEARCH_DEBOUNCE: %w", err)
	}
	if searchDebounce <= 0 {
		return Config{}, fmt.Errorf("SEARCH_DEBOUNCE must be > 0")
	}
	filterDebounce, err := time.ParseDuration(getEnv("FILTER_DEBOUNCE", "300ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FILTER_DEBOUNCE: %w", err)
	}
	if filterDebounce <= 0 {
		return Config{}, fmt.Errorf("FILTER_DEBOUNCE must be > 0")
	}

	liveWorkerPoolSize, err := getEnvAsInt("LIVE_WORKER_POOL_SIZE", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_WORKER_POOL_SIZE: %w", err)
	}
	if liveWorkerPoolSize <= 0 {
		return Config{}, fmt.Errorf("LIVE_WORKER_POOL_SIZE must be > 0")
	}
	livePingInterval, err := time.ParseDuration(getEnv("LIVE_PING_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_PING_INTERVAL: %w", err)
	}
	if livePingInterval <= 0 {
		return Config{}, fmt.Errorf("LIVE_PING_INTERVAL must be > 0")
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                strings.TrimSpace(getEnv("APP_SERVICE_NAME", "fantasy-manager-hub")),
		ServiceVersion:             strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":3000"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		APIBaseURL:                 apiBaseURL,
		APITimeout:                 apiTimeout,
		APICircuitEnabled:          apiCircuitEnabled,
		APICircuitFailureCount:     apiCircuitFailureCount,
		APICircuitOpenTimeout:      apiCircuitOpenTimeout,
		APICircuitHalfOpenMaxReq:   apiCircuitHalfOpenMaxReq,
		SearchDebounce:             searchDebounce,
		FilterDebounce:             filterDebounce,
		LiveWorkerPoolSize:         liveWorkerPoolSize,
		LiveAllowedOrigins:         splitCSV(getEnv("LIVE_ALLOWED_ORIGINS", "")),
		LivePingInterval:           livePingInterval,
		MetricsEnabled:             metricsEnabled,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}

	if cfg.ServiceName == "" {
		return Config{}, fmt.Errorf("APP_SERVICE_NAME must not be empty")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("API_BASE_URL must not be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse API_BASE_URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use http or https, got %q", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("API_BASE_URL must include a host, got %q", raw)
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
