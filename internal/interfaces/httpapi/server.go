package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
)

type RouterConfig struct {
	ServiceName        string
	CORSAllowedOrigins []string
	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
	Metrics        HTTPMetrics
	// RequestBodyMaxBytes > 0 records action bodies on traced requests.
	RequestBodyMaxBytes int
}

func NewRouter(handler *Handler, sessions *Sessions, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "nba-stats-viewer"
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.MetricsHandler)
	registerViewerRoutes(mux, handler, sessions)
	registerActionRoutes(mux, handler, sessions)

	var root http.Handler = recoverPanic(logger, mux)
	root = CORS(cfg.CORSAllowedOrigins, root)
	root = RequestMetrics(cfg.Metrics, mux, root)
	root = RequestLogging(logger, root)
	root = CaptureRequestBody(cfg.RequestBodyMaxBytes, root)
	return RequestTracing(cfg.ServiceName, root)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
