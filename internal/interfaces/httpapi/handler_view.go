package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
)

const readinessTimeout = 3 * time.Second

// Page renders the viewer once the session's pending work settles.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Page")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}

	view := h.settle(ctx, sess)
	notice := pageNotices[r.URL.Query().Get("notice")]
	if err := h.renderer.Render(w, view, notice); err != nil {
		h.logger.ErrorContext(ctx, "render viewer page failed", "session_id", sess.ID, "error", err)
		writeInternalError(ctx, w)
	}
}

// State returns the current snapshot without waiting.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.State")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	writeSuccess(ctx, w, http.StatusOK, sess.Controller.Snapshot())
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz is ready only while the warehouse answers its health probe.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if h.health == nil {
		writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := h.health.Health(probeCtx); err != nil {
		h.logger.WarnContext(ctx, "readiness probe failed", "error", err)
		writeError(ctx, w, fmt.Errorf("%w: warehouse not ready: %w", usecase.ErrDependencyUnavailable, err))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok", "warehouse": "ok"})
}
