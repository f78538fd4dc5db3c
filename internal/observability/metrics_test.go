package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/resilience"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsViewerSignals(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveHTTP("GET /", http.MethodGet, http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTP("", http.MethodGet, http.StatusNotFound, time.Millisecond)
	m.ObserveWarehouse("leaders", "ok", 80*time.Millisecond)
	m.ObserveWarehouse("leaders", "error", 5*time.Millisecond)
	m.ObserveCommit(usecase.SlotLeaders, usecase.OutcomeCommitted)
	m.ObserveCommit(usecase.SlotSearch, usecase.OutcomeStale)
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.RateLimited()

	require.InDelta(t, 1, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /", "GET", "200")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "GET", "404")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.warehouseRequests.WithLabelValues("leaders", "error")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.viewCommits.WithLabelValues("search", "stale")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.activeSessions), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.rateLimited), 0)
}

func TestMetrics_BreakerGaugeFollowsTransitions(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveBreaker("warehouse", resilience.CircuitStateClosed, resilience.CircuitStateOpen)
	require.InDelta(t, 1, testutil.ToFloat64(m.breakerState.WithLabelValues("warehouse", "open")), 0)

	m.ObserveBreaker("warehouse", resilience.CircuitStateOpen, resilience.CircuitStateHalfOpen)
	require.InDelta(t, 0, testutil.ToFloat64(m.breakerState.WithLabelValues("warehouse", "open")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.breakerState.WithLabelValues("warehouse", "half_open")), 0)

	m.ObserveBreaker("warehouse", resilience.CircuitStateHalfOpen, resilience.CircuitStateClosed)
	require.InDelta(t, 0, testutil.ToFloat64(m.breakerState.WithLabelValues("warehouse", "half_open")), 0)
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveCommit(usecase.SlotStandings, usecase.OutcomeFailed)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `nba_viewer_view_commits_total{outcome="failed",slot="standings"} 1`))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveHTTP("GET /", "GET", 200, time.Millisecond)
		m.ObserveWarehouse("health", "ok", time.Millisecond)
		m.ObserveCommit(usecase.SlotPlayer, usecase.OutcomeCommitted)
		m.ObserveBreaker("warehouse", resilience.CircuitStateClosed, resilience.CircuitStateOpen)
		m.SessionOpened()
		m.RateLimited()
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
