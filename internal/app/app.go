package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/nba-stats-viewer/external/warehouse"
	"github.com/riskibarqy/nba-stats-viewer/internal/config"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/navigation"
	"github.com/riskibarqy/nba-stats-viewer/internal/interfaces/httpapi"
	"github.com/riskibarqy/nba-stats-viewer/internal/observability"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/clock"
	idgen "github.com/riskibarqy/nba-stats-viewer/internal/platform/id"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/resilience"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
)

const (
	pageTitle       = "NBA Stats Viewer"
	janitorInterval = time.Minute
)

// Server is the assembled viewer process.
type Server struct {
	HTTP     *http.Server
	Sessions *httpapi.Sessions
	Metrics  *observability.Metrics

	pool        *ants.Pool
	stopJanitor context.CancelFunc
}

// Deps overrides collaborators; zero values build the production ones.
type Deps struct {
	Warehouse usecase.Warehouse
	Health    httpapi.HealthChecker
	Executor  usecase.Executor
	Clock     clock.Clock
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*Server, error) {
	return NewHTTPServerWithDeps(cfg, logger, Deps{})
}

func NewHTTPServerWithDeps(cfg config.Config, logger *logging.Logger, deps Deps) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	srv := &Server{Metrics: metrics}

	if deps.Warehouse == nil {
		client := warehouse.NewClient(warehouse.ClientConfig{
			BaseURL: cfg.WarehouseBaseURL,
			Season:  cfg.Season,
			Timeout: cfg.WarehouseTimeout,
			Logger:  logger.Named("warehouse"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WarehouseCircuitEnabled,
				FailureThreshold: cfg.WarehouseCircuitFailures,
				OpenTimeout:      cfg.WarehouseCircuitOpenFor,
				HalfOpenMaxReq:   cfg.WarehouseCircuitHalfOpen,
				OnStateChange:    metrics.ObserveBreaker,
			},
			Observer: metrics.ObserveWarehouse,
		})
		deps.Warehouse = client
		if deps.Health == nil {
			deps.Health = client
		}
	}
	if deps.Health == nil {
		return nil, fmt.Errorf("health checker is required with a custom warehouse")
	}

	if deps.Executor == nil {
		pool, err := newDispatchPool(cfg.DispatchWorkers)
		if err != nil {
			return nil, fmt.Errorf("create dispatch pool: %w", err)
		}
		srv.pool = pool
		deps.Executor = pool
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}

	renderer, err := httpapi.NewRenderer(pageTitle, warehouse.NewImages(cfg.ImageCDNBaseURL))
	if err != nil {
		srv.releasePool()
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	controllerCfg := ControllerConfig(cfg)
	controllerCfg.Observer = metrics.ObserveCommit
	controllerLogger := logger.Named("controller")

	srv.Sessions = httpapi.NewSessions(httpapi.SessionConfig{
		TTL:          cfg.SessionTTL,
		ActionRate:   cfg.ActionRateLimit,
		ActionBurst:  cfg.ActionRateBurst,
		SecureCookie: cfg.AppEnv == config.EnvProd,
		IDs:          idgen.NewUUIDGenerator(),
		Clock:        deps.Clock,
		NewController: func() *usecase.Controller {
			return usecase.NewController(deps.Warehouse, deps.Executor, deps.Clock, controllerLogger, controllerCfg)
		},
		Metrics: metrics,
		Logger:  logger.Named("sessions"),
	})

	handler := httpapi.NewHandler(deps.Health, renderer, logger, cfg.RenderSettleTimeout)

	routerCfg := httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if cfg.UptraceEnabled && cfg.UptraceCaptureRequestBody {
		routerCfg.RequestBodyMaxBytes = cfg.UptraceRequestBodyMaxBytes
	}
	if metrics != nil {
		routerCfg.MetricsHandler = metrics.Handler()
		routerCfg.Metrics = metrics
	}
	router := httpapi.NewRouter(handler, srv.Sessions, logger, routerCfg)

	srv.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	janitorCtx, cancel := context.WithCancel(context.Background())
	srv.stopJanitor = cancel
	go srv.Sessions.RunJanitor(janitorCtx, janitorInterval)

	return srv, nil
}

// newDispatchPool builds the shared fetch pool. Fetches commit from inside a worker
// and submit their follow-ups there, so Submit must fail fast when every worker is
// busy; the controller then runs the task on its own goroutine.
func newDispatchPool(workers int) (*ants.Pool, error) {
	return ants.NewPool(workers, ants.WithNonblocking(true))
}

// ControllerConfig maps process configuration onto per-session controller settings.
func ControllerConfig(cfg config.Config) usecase.ControllerConfig {
	out := usecase.DefaultControllerConfig(cfg.Season)
	out.Policy = leaders.Policy{
		Season:         cfg.Season,
		MinGamesPlayed: cfg.LeadersMinGamesPlayed,
		Min3PA:         cfg.LeadersMin3PA,
		MinFGA:         cfg.LeadersMinFGA,
	}
	out.PageSize = cfg.LeadersPageSize
	out.TabDelays = navigation.Delays{Swap: cfg.TabSwapDelay, Unlock: cfg.TabUnlockDelay}
	out.SearchDebounce = cfg.SearchDebounce
	out.SearchLimit = cfg.SearchLimit
	out.DeepLinkSearchLimit = cfg.DeepLinkSearchLimit
	out.PlayerWindow = cfg.PlayerWindow
	return out
}

// Close stops every session and releases the dispatch pool. Call it after the
// HTTP server has shut down.
func (s *Server) Close(timeout time.Duration) {
	if s.stopJanitor != nil {
		s.stopJanitor()
	}
	if s.Sessions != nil {
		s.Sessions.Close()
	}
	if s.pool != nil {
		_ = s.pool.ReleaseTimeout(timeout)
	}
}

func (s *Server) releasePool() {
	if s.pool != nil {
		s.pool.Release()
	}
}
