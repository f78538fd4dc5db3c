package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/platform/cache"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/clock"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/id"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
	"golang.org/x/time/rate"
)

const SessionCookieName = "nbaviewer_sid"

// SessionMetrics is implemented by observability.Metrics.
type SessionMetrics interface {
	SessionOpened()
	SessionClosed()
	RateLimited()
}

// Session binds one browser to its view controller.
type Session struct {
	ID         string
	Controller *usecase.Controller
	limiter    *rate.Limiter
}

type SessionConfig struct {
	TTL          time.Duration
	ActionRate   float64
	ActionBurst  int
	SecureCookie bool
	IDs          id.Generator
	// Clock drives session expiry; nil uses the real clock.
	Clock clock.Clock
	// NewController builds an unprimed controller for a new session.
	NewController func() *usecase.Controller
	Metrics       SessionMetrics
	Logger        *logging.Logger
}

// Sessions keeps controllers in a sliding TTL store and closes them on eviction.
type Sessions struct {
	store         *cache.Store[*Session]
	ids           id.Generator
	newController func() *usecase.Controller
	clock         clock.Clock
	ttl           time.Duration
	actionRate    rate.Limit
	actionBurst   int
	secure        bool
	metrics       SessionMetrics
	logger        *logging.Logger
}

func NewSessions(cfg SessionConfig) *Sessions {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	ids := cfg.IDs
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	limit := rate.Limit(cfg.ActionRate)
	if cfg.ActionRate <= 0 {
		limit = rate.Inf
	}
	burst := cfg.ActionBurst
	if burst < 1 {
		burst = 1
	}

	s := &Sessions{
		ids:           ids,
		newController: cfg.NewController,
		clock:         clk,
		ttl:           cfg.TTL,
		actionRate:    limit,
		actionBurst:   burst,
		secure:        cfg.SecureCookie,
		metrics:       cfg.Metrics,
		logger:        logger,
	}
	s.store = cache.NewStore(cache.Options[*Session]{
		TTL:     cfg.TTL,
		Sliding: true,
		OnEvict: s.evicted,
		Now:     clk.Now,
	})
	return s
}

func (s *Sessions) evicted(key string, sess *Session) {
	sess.Controller.Close()
	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
	s.logger.Debug("viewer session closed", "session_id", key)
}

// Resolve returns the caller's session, creating and priming one when the cookie is
// missing, malformed or expired. The cookie is re-issued on every request so it
// expires together with the sliding store entry.
func (s *Sessions) Resolve(w http.ResponseWriter, r *http.Request) (*Session, error) {
	ctx, span := startSpan(r.Context(), "httpapi.Sessions.Resolve")
	defer span.End()

	if cookie, err := r.Cookie(SessionCookieName); err == nil && id.Valid(cookie.Value) {
		if sess, ok := s.store.Get(ctx, cookie.Value); ok {
			s.setCookie(w, sess.ID)
			return sess, nil
		}
	}

	sessionID, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("open viewer session: %w", err)
	}
	sess := &Session{
		ID:         sessionID,
		Controller: s.newController(),
		limiter:    rate.NewLimiter(s.actionRate, s.actionBurst),
	}
	s.store.Set(ctx, sessionID, sess)
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}

	s.setCookie(w, sessionID)
	s.logger.InfoContext(ctx, "viewer session opened", "session_id", sessionID)

	if err := sess.Controller.Prime(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Sessions) setCookie(w http.ResponseWriter, sessionID string) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.ttl > 0 {
		cookie.MaxAge = int(s.ttl.Seconds())
		cookie.Expires = s.clock.Now().Add(s.ttl).UTC()
	}
	http.SetCookie(w, cookie)
}

// Middleware attaches the session to the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.Resolve(w, r)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "resolve viewer session failed", "error", err)
			writeError(r.Context(), w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

// LimitActions rejects actions beyond the per-session rate with 429.
func (s *Sessions) LimitActions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r.Context())
		if ok && !sess.limiter.Allow() {
			if s.metrics != nil {
				s.metrics.RateLimited()
			}
			s.logger.WarnContext(r.Context(), "viewer action rate limited", "session_id", sess.ID, "path", r.URL.Path)
			writeError(r.Context(), w, usecase.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Sessions) Len() int {
	return s.store.Len()
}

// RunJanitor closes idle sessions until ctx ends.
func (s *Sessions) RunJanitor(ctx context.Context, every time.Duration) {
	s.store.RunJanitor(ctx, every)
}

// Close evicts every session.
func (s *Sessions) Close() {
	s.store.Clear()
}
