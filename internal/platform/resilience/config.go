package resilience

import (
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/platform/clock"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 15 * time.Second
	defaultHalfOpenProbes   = 2
)

// CircuitBreakerConfig mirrors the WAREHOUSE_CIRCUIT_* settings. Zero numeric
// fields fall back to the defaults above.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	OnStateChange    StateListener
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

func (cfg CircuitBreakerConfig) normalized() CircuitBreakerConfig {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaultHalfOpenProbes
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	return cfg
}
