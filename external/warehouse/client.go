package warehouse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/standings"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/resilience"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL  = "http://localhost:8000"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 6 << 20
)

var tracer = otel.Tracer("nba-stats-viewer/external/warehouse")

// RequestObserver receives the outcome of every warehouse call.
type RequestObserver func(endpoint, outcome string, elapsed time.Duration)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	// Season is sent with game log requests.
	Season         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Observer       RequestObserver
}

// Client is the read-only warehouse REST client. Every failure it returns is marked
// with usecase.ErrRemote.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	season         string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
	observe        RequestObserver
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		season:         strings.TrimSpace(cfg.Season),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker("warehouse", cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		observe:        cfg.Observer,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Breaker exposes the circuit state for readiness reporting.
func (c *Client) Breaker() *resilience.CircuitBreaker {
	return c.breaker
}

func (c *Client) Leaders(ctx context.Context, query leaders.Query) (leaders.Page, error) {
	if !query.Category.Valid() {
		return leaders.Page{}, fmt.Errorf("%w: unknown category %q", usecase.ErrInvalidInput, query.Category)
	}

	params := url.Values{}
	params.Set("season", query.Season)
	params.Set("min_gp", strconv.Itoa(query.MinGamesPlayed))
	params.Set("limit", strconv.Itoa(query.Limit))
	if name := query.AttemptsParam(); name != "" {
		params.Set(name, strconv.Itoa(query.MinAttempts))
	}

	var payload leadersResponse
	if err := c.doJSON(ctx, "leaders", "/warehouse/leaders/"+string(query.Category), params, &payload); err != nil {
		return leaders.Page{}, err
	}
	return payload.toDomain(query), nil
}

func (c *Client) SearchPlayers(ctx context.Context, query string, limit int) ([]player.SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", usecase.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var payload searchResponse
	if err := c.doJSON(ctx, "players_search", "/warehouse/players/search", params, &payload); err != nil {
		return nil, err
	}
	return payload.Players, nil
}

func (c *Client) PlayerGameLog(ctx context.Context, playerID int64, n int) (player.GameLog, error) {
	return c.PlayerGameLogForSeason(ctx, playerID, n, c.season)
}

// PlayerGameLogForSeason is PlayerGameLog with an explicit season; empty uses the backend default.
func (c *Client) PlayerGameLogForSeason(ctx context.Context, playerID int64, n int, season string) (player.GameLog, error) {
	if playerID <= 0 {
		return player.GameLog{}, fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput)
	}

	params := url.Values{}
	if n > 0 {
		params.Set("n", strconv.Itoa(n))
	}
	if season = strings.TrimSpace(season); season != "" {
		params.Set("season", season)
	}

	var payload gameLogResponse
	path := "/warehouse/player/" + strconv.FormatInt(playerID, 10) + "/last_n"
	if err := c.doJSON(ctx, "player_last_n", path, params, &payload); err != nil {
		return player.GameLog{}, err
	}
	return payload.toDomain(playerID, n), nil
}

func (c *Client) Standings(ctx context.Context, season string) (standings.Table, error) {
	params := url.Values{}
	if season = strings.TrimSpace(season); season != "" {
		params.Set("season", season)
	}

	var payload standingsResponse
	if err := c.doJSON(ctx, "standings_current", "/warehouse/standings/current", params, &payload); err != nil {
		return standings.Table{}, err
	}
	return payload.toDomain(season), nil
}

// Health pings the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	var payload struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, "health", "/health", nil, &payload); err != nil {
		return err
	}
	if payload.Status != "ok" {
		return remoteError(nil, "warehouse health status=%q", payload.Status)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, endpoint, path string, params url.Values, target any) (err error) {
	ctx, span := tracer.Start(ctx, "warehouse."+endpoint)
	defer span.End()

	started := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if c.observe != nil {
			c.observe(endpoint, outcome, time.Since(started))
		}
	}()

	if c.circuitEnabled {
		if allowErr := c.breaker.Allow(); allowErr != nil {
			c.logger.WarnContext(ctx, "warehouse circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
			return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable,
				remoteError(allowErr, "warehouse %s temporarily unavailable", endpoint))
		}
	}

	fullURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	span.SetAttributes(attribute.String("http.url", fullURL))

	out, err, shared := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && ctx.Err() == nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	span.SetAttributes(attribute.Bool("warehouse.shared", shared))
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return remoteError(nil, "unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return remoteError(err, "decode warehouse %s payload", endpoint)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, remoteError(err, "build warehouse request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "warehouse request failed", "url", fullURL, "error", err)
		return nil, remoteError(err, "send warehouse request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, remoteError(err, "read warehouse response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "warehouse returned non-2xx", "url", fullURL, "status", resp.StatusCode)
		return nil, remoteError(nil, "warehouse status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
	return raw, nil
}

// remoteError wraps usecase.ErrRemote with context and keeps cause as a secondary
// error so it stays visible in detailed reports without changing classification.
func remoteError(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg += ": " + cause.Error()
	}
	err := crerr.Wrap(usecase.ErrRemote, msg)
	if cause != nil {
		err = crerr.WithSecondaryError(err, cause)
	}
	return err
}

func abbreviateBody(raw []byte) string {
	const max = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= max {
		return body
	}
	return body[:max] + "..."
}
