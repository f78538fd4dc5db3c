package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
)

// Config stores runtime configuration for the viewer.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	CORSAllowedOrigins         []string
	LogLevel                   logging.Level
	WarehouseBaseURL           string
	WarehouseTimeout           time.Duration
	WarehouseCircuitEnabled    bool
	WarehouseCircuitFailures   int
	WarehouseCircuitOpenFor    time.Duration
	WarehouseCircuitHalfOpen   int
	ImageCDNBaseURL            string
	Season                     string
	LeadersPageSize            int
	LeadersMinGamesPlayed      int
	LeadersMin3PA              int
	LeadersMinFGA              int
	SearchDebounce             time.Duration
	SearchLimit                int
	DeepLinkSearchLimit        int
	PlayerWindow               int
	TabSwapDelay               time.Duration
	TabUnlockDelay             time.Duration
	SessionTTL                 time.Duration
	DispatchWorkers            int
	RenderSettleTimeout        time.Duration
	ActionRateLimit            float64
	ActionRateBurst            int
	MetricsEnabled             bool
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
	BetterStackEnabled         bool
	BetterStackEndpoint        string
	BetterStackToken           string
	BetterStackTimeout         time.Duration
	BetterStackMinLevel        logging.Level
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
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	warehouseBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("WAREHOUSE_BASE_URL", "http://localhost:8000")), "/")
	if warehouseBaseURL == "" {
		return Config{}, fmt.Errorf("WAREHOUSE_BASE_URL cannot be empty")
	}
	warehouseTimeout, err := time.ParseDuration(getEnv("WAREHOUSE_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WAREHOUSE_TIMEOUT: %w", err)
	}
	if warehouseTimeout <= 0 {
		return Config{}, fmt.Errorf("WAREHOUSE_TIMEOUT must be > 0")
	}
	warehouseCircuitEnabled, err := strconv.ParseBool(getEnv("WAREHOUSE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WAREHOUSE_CIRCUIT_ENABLED: %w", err)
	}
	warehouseCircuitFailures, err := getEnvAsInt("WAREHOUSE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse WAREHOUSE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if warehouseCircuitFailures < 1 {
		return Config{}, fmt.Errorf("WAREHOUSE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	warehouseCircuitOpenFor, err := time.ParseDuration(getEnv("WAREHOUSE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WAREHOUSE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if warehouseCircuitOpenFor <= 0 {
		return Config{}, fmt.Errorf("WAREHOUSE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	warehouseCircuitHalfOpen, err := getEnvAsInt("WAREHOUSE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WAREHOUSE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if warehouseCircuitHalfOpen < 1 {
		return Config{}, fmt.Errorf("WAREHOUSE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	season := strings.TrimSpace(getEnv("VIEWER_SEASON", "2025-26"))
	if !validSeason(season) {
		return Config{}, fmt.Errorf("invalid VIEWER_SEASON %q: expected YYYY-YY", season)
	}

	leadersPageSize, err := getEnvAsInt("LEADERS_PAGE_SIZE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEADERS_PAGE_SIZE: %w", err)
	}
	if leadersPageSize < 1 {
		return Config{}, fmt.Errorf("LEADERS_PAGE_SIZE must be >= 1")
	}
	leadersMinGP, err := getEnvAsInt("LEADERS_MIN_GP", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEADERS_MIN_GP: %w", err)
	}
	leadersMin3PA, err := getEnvAsInt("LEADERS_MIN_3PA", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEADERS_MIN_3PA: %w", err)
	}
	leadersMinFGA, err := getEnvAsInt("LEADERS_MIN_FGA", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEADERS_MIN_FGA: %w", err)
	}
	if leadersMinGP < 0 || leadersMin3PA < 0 || leadersMinFGA < 0 {
		return Config{}, fmt.Errorf("LEADERS_MIN_* thresholds must be >= 0")
	}

	searchDebounce, err := time.ParseDuration(getEnv("SEARCH_DEBOUNCE", "250ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEARCH_DEBOUNCE: %w", err)
	}
	if searchDebounce <= 0 {
		return Config{}, fmt.Errorf("SEARCH_DEBOUNCE must be > 0")
	}
	searchLimit, err := getEnvAsInt("SEARCH_LIMIT", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEARCH_LIMIT: %w", err)
	}
	if searchLimit < 1 {
		return Config{}, fmt.Errorf("SEARCH_LIMIT must be >= 1")
	}
	deepLinkSearchLimit, err := getEnvAsInt("DEEP_LINK_SEARCH_LIMIT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEEP_LINK_SEARCH_LIMIT: %w", err)
	}
	if deepLinkSearchLimit < 1 {
		return Config{}, fmt.Errorf("DEEP_LINK_SEARCH_LIMIT must be >= 1")
	}
	playerWindow, err := getEnvAsInt("PLAYER_WINDOW", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYER_WINDOW: %w", err)
	}
	if playerWindow < 1 {
		return Config{}, fmt.Errorf("PLAYER_WINDOW must be >= 1")
	}

	tabSwapDelay, err := time.ParseDuration(getEnv("TAB_SWAP_DELAY", "150ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TAB_SWAP_DELAY: %w", err)
	}
	tabUnlockDelay, err := time.ParseDuration(getEnv("TAB_UNLOCK_DELAY", "450ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TAB_UNLOCK_DELAY: %w", err)
	}
	if tabSwapDelay < 0 {
		return Config{}, fmt.Errorf("TAB_SWAP_DELAY must be >= 0")
	}
	if tabUnlockDelay < tabSwapDelay {
		return Config{}, fmt.Errorf("TAB_UNLOCK_DELAY must be >= TAB_SWAP_DELAY")
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}
	if sessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be > 0")
	}
	dispatchWorkers, err := getEnvAsInt("DISPATCH_WORKERS", 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse DISPATCH_WORKERS: %w", err)
	}
	if dispatchWorkers < 1 {
		return Config{}, fmt.Errorf("DISPATCH_WORKERS must be >= 1")
	}
	renderSettleTimeout, err := time.ParseDuration(getEnv("RENDER_SETTLE_TIMEOUT", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RENDER_SETTLE_TIMEOUT: %w", err)
	}
	if renderSettleTimeout < 0 {
		return Config{}, fmt.Errorf("RENDER_SETTLE_TIMEOUT must be >= 0")
	}

	actionRateLimit, err := strconv.ParseFloat(getEnv("ACTION_RATE_LIMIT", "20"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse ACTION_RATE_LIMIT: %w", err)
	}
	if actionRateLimit <= 0 {
		return Config{}, fmt.Errorf("ACTION_RATE_LIMIT must be > 0")
	}
	actionRateBurst, err := getEnvAsInt("ACTION_RATE_BURST", 40)
	if err != nil {
		return Config{}, fmt.Errorf("parse ACTION_RATE_BURST: %w", err)
	}
	if actionRateBurst < 1 {
		return Config{}, fmt.Errorf("ACTION_RATE_BURST must be >= 1")
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 4096)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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
		ServiceName:                getEnv("APP_SERVICE_NAME", "nba-stats-viewer"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		WarehouseBaseURL:           warehouseBaseURL,
		WarehouseTimeout:           warehouseTimeout,
		WarehouseCircuitEnabled:    warehouseCircuitEnabled,
		WarehouseCircuitFailures:   warehouseCircuitFailures,
		WarehouseCircuitOpenFor:    warehouseCircuitOpenFor,
		WarehouseCircuitHalfOpen:   warehouseCircuitHalfOpen,
		ImageCDNBaseURL:            strings.TrimSpace(getEnv("IMAGE_CDN_BASE_URL", "https://cdn.nba.com")),
		Season:                     season,
		LeadersPageSize:            leadersPageSize,
		LeadersMinGamesPlayed:      leadersMinGP,
		LeadersMin3PA:              leadersMin3PA,
		LeadersMinFGA:              leadersMinFGA,
		SearchDebounce:             searchDebounce,
		SearchLimit:                searchLimit,
		DeepLinkSearchLimit:        deepLinkSearchLimit,
		PlayerWindow:               playerWindow,
		TabSwapDelay:               tabSwapDelay,
		TabUnlockDelay:             tabUnlockDelay,
		SessionTTL:                 sessionTTL,
		DispatchWorkers:            dispatchWorkers,
		RenderSettleTimeout:        renderSettleTimeout,
		ActionRateLimit:            actionRateLimit,
		ActionRateBurst:            actionRateBurst,
		MetricsEnabled:             metricsEnabled,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		UptraceCaptureRequestBody:  uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes: uptraceRequestBodyMaxBytes,
		BetterStackEnabled:         betterStackEnabled,
		BetterStackEndpoint:        betterStackEndpoint,
		BetterStackToken:           strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:         betterStackTimeout,
		BetterStackMinLevel:        logging.ParseLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error")),
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// validSeason accepts the NBA season label form "2025-26".
func validSeason(v string) bool {
	if len(v) != 7 || v[4] != '-' {
		return false
	}
	start, err := strconv.Atoi(v[:4])
	if err != nil {
		return false
	}
	end, err := strconv.Atoi(v[5:])
	if err != nil {
		return false
	}
	return (start+1)%100 == end
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

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
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
