package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nba-stats-viewer/internal/config"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type capturedShipment struct {
	mu       sync.Mutex
	requests int
	auth     string
	records  []map[string]any
}

func (c *capturedShipment) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var records []map[string]any
	_ = sonic.Unmarshal(body, &records)

	c.mu.Lock()
	c.requests++
	c.auth = r.Header.Get("Authorization")
	c.records = append(c.records, records...)
	c.mu.Unlock()
	w.WriteHeader(http.StatusAccepted)
}

func betterStackConfig(endpoint string) config.Config {
	return config.Config{
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		LogLevel:            logging.LevelError,
		ServiceName:         "nba-stats-viewer",
		AppEnv:              config.EnvDev,
	}
}

func TestInitBetterStackLogger_ShipsBatchedErrors(t *testing.T) {
	t.Parallel()

	captured := &capturedShipment{}
	server := httptest.NewServer(http.HandlerFunc(captured.handler))
	defer server.Close()

	logger, shutdown, err := InitBetterStackLogger(betterStackConfig(server.URL), logging.NewNop())
	require.NoError(t, err)

	logger.ErrorContext(context.Background(), "standings render failed", "component", "httpapi")
	logger.ErrorContext(context.Background(), "leaders render failed", "component", "httpapi")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, shutdown(ctx))

	captured.mu.Lock()
	defer captured.mu.Unlock()
	require.GreaterOrEqual(t, captured.requests, 1)
	require.Equal(t, "Bearer secret-token", captured.auth)
	require.Len(t, captured.records, 2)
	require.Equal(t, "standings render failed", captured.records[0]["msg"])
	require.Equal(t, "nba-stats-viewer", captured.records[0]["service"])
}

func TestInitBetterStackLogger_RespectsMinLevel(t *testing.T) {
	t.Parallel()

	captured := &capturedShipment{}
	server := httptest.NewServer(http.HandlerFunc(captured.handler))
	defer server.Close()

	logger, shutdown, err := InitBetterStackLogger(betterStackConfig(server.URL), logging.NewNop())
	require.NoError(t, err)

	logger.WarnContext(context.Background(), "view slot fetch failed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, shutdown(ctx))

	captured.mu.Lock()
	defer captured.mu.Unlock()
	require.Zero(t, captured.requests)
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://in.logs.example.com", normalizeBetterStackEndpoint(" in.logs.example.com "))
	require.Equal(t, "http://localhost:9000", normalizeBetterStackEndpoint("http://localhost:9000"))
	require.Empty(t, normalizeBetterStackEndpoint(""))
}
