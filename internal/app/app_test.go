package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/config"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/standings"
	usecasemock "github.com/riskibarqy/nba-stats-viewer/internal/mocks/usecase"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/clock"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type okHealth struct{}

func (okHealth) Health(context.Context) error { return nil }

func testConfig() config.Config {
	return config.Config{
		AppEnv:                config.EnvDev,
		ServiceName:           "nba-stats-viewer",
		HTTPAddr:              ":0",
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		CORSAllowedOrigins:    []string{"*"},
		WarehouseBaseURL:      "http://warehouse.invalid",
		WarehouseTimeout:      time.Second,
		ImageCDNBaseURL:       "https://cdn.example.com",
		Season:                "2025-26",
		LeadersPageSize:       10,
		LeadersMinGamesPlayed: 12,
		LeadersMin3PA:         60,
		LeadersMinFGA:         120,
		SearchDebounce:        300 * time.Millisecond,
		SearchLimit:           8,
		DeepLinkSearchLimit:   4,
		PlayerWindow:          10,
		TabSwapDelay:          100 * time.Millisecond,
		TabUnlockDelay:        300 * time.Millisecond,
		SessionTTL:            time.Hour,
		DispatchWorkers:       4,
		RenderSettleTimeout:   50 * time.Millisecond,
		ActionRateLimit:       20,
		ActionRateBurst:       40,
		MetricsEnabled:        true,
	}
}

func TestControllerConfig_MapsThresholdsAndDelays(t *testing.T) {
	t.Parallel()

	got := ControllerConfig(testConfig())
	require.Equal(t, leaders.Policy{Season: "2025-26", MinGamesPlayed: 12, Min3PA: 60, MinFGA: 120}, got.Policy)
	require.Equal(t, 10, got.PageSize)
	require.Equal(t, 100*time.Millisecond, got.TabDelays.Swap)
	require.Equal(t, 300*time.Millisecond, got.TabDelays.Unlock)
	require.Equal(t, 300*time.Millisecond, got.SearchDebounce)
	require.Equal(t, 8, got.SearchLimit)
	require.Equal(t, 4, got.DeepLinkSearchLimit)
	require.Equal(t, leaders.CategoryPTS, got.InitialCategory)
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.HTTPAddr = ""
	_, err := NewHTTPServer(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewHTTPServer_ServesViewerAndMetrics(t *testing.T) {
	t.Parallel()

	wh := usecasemock.NewWarehouse(t)
	wh.On("Leaders", mock.Anything, mock.Anything).Return(leaders.Page{Season: "2025-26", Rows: []leaders.Row{
		{PlayerID: 1628983, PlayerName: "Shai Gilgeous-Alexander", TeamAbbreviation: "OKC", GamesPlayed: 44},
	}}, nil).Maybe()
	wh.On("Standings", mock.Anything, "2025-26").Return(standings.Table{Season: "2025-26"}, nil).Maybe()

	srv, err := NewHTTPServerWithDeps(testConfig(), logging.NewNop(), Deps{
		Warehouse: wh,
		Health:    okHealth{},
		Executor:  usecase.InlineExecutor{},
		Clock:     clock.NewManual(time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close(time.Second) })

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Shai Gilgeous-Alexander")
	require.Equal(t, 1, srv.Sessions.Len())

	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `nba_viewer_http_requests_total{method="GET",route="GET /{$}",status="200"} 1`), string(body))
	require.Contains(t, string(body), "nba_viewer_active_sessions 1")
}

func TestServerClose_StopsSessions(t *testing.T) {
	t.Parallel()

	wh := usecasemock.NewWarehouse(t)
	wh.On("Leaders", mock.Anything, mock.Anything).Return(leaders.Page{Season: "2025-26"}, nil).Maybe()
	wh.On("Standings", mock.Anything, mock.Anything).Return(standings.Table{Season: "2025-26"}, nil).Maybe()

	cfg := testConfig()
	cfg.MetricsEnabled = false
	srv, err := NewHTTPServerWithDeps(cfg, logging.NewNop(), Deps{Warehouse: wh, Health: okHealth{}})
	require.NoError(t, err)
	require.Nil(t, srv.Metrics)

	rec := httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, srv.Sessions.Len())

	rec = httptest.NewRecorder()
	srv.HTTP.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	srv.Close(time.Second)
	require.Equal(t, 0, srv.Sessions.Len())
}

func TestDispatchPool_FollowUpFetchesSurviveSaturatedPool(t *testing.T) {
	t.Parallel()

	const sessions = 4
	pool, err := newDispatchPool(sessions)
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	release := make(chan struct{})
	wh := usecasemock.NewWarehouse(t)
	wh.On("SearchPlayers", mock.Anything, "Stephen Curry", 4).
		Run(func(mock.Arguments) { <-release }).
		Return([]player.SearchHit{{PlayerID: 201, FullName: "Stephen Curry"}}, nil).
		Times(sessions)
	wh.On("PlayerGameLog", mock.Anything, int64(201), 10).
		Return(player.GameLog{PlayerID: 201, Window: 10}, nil).
		Times(sessions)

	clk := clock.NewManual(time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC))
	ctrlCfg := ControllerConfig(testConfig())
	controllers := make([]*usecase.Controller, sessions)
	for i := range controllers {
		controllers[i] = usecase.NewController(wh, pool, clk, logging.NewNop(), ctrlCfg)
		t.Cleanup(controllers[i].Close)
	}

	var wg sync.WaitGroup
	wg.Add(sessions)
	for _, ctrl := range controllers {
		go func(ctrl *usecase.Controller) {
			defer wg.Done()
			_ = ctrl.OpenLeader(context.Background(), 201, "Stephen Curry")
		}(ctrl)
	}
	wg.Wait()
	require.Eventually(t, func() bool { return pool.Running() == sessions }, time.Second, 5*time.Millisecond)
	close(release)

	require.Eventually(t, func() bool {
		for _, ctrl := range controllers {
			state := ctrl.Snapshot()
			if state.Player.Status != fetch.StatusOK || state.Player.Selected == nil {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return pool.Running() == 0 }, time.Second, 5*time.Millisecond)
}
