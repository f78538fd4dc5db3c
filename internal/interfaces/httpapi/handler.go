package httpapi

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
)

const maxActionBodyBytes = 16 << 10

// noticeInvalidInput is the page notice shown after a rejected form post.
const noticeInvalidInput = "invalid_input"

var pageNotices = map[string]string{
	noticeInvalidInput: "That request could not be processed. Check the input and try again.",
}

// HealthChecker reports whether the warehouse answers.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Handler struct {
	health        HealthChecker
	renderer      *Renderer
	logger        *logging.Logger
	validator     *validator.Validate
	settleTimeout time.Duration
}

func NewHandler(health HealthChecker, renderer *Renderer, logger *logging.Logger, settleTimeout time.Duration) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if settleTimeout <= 0 {
		settleTimeout = 2 * time.Second
	}

	return &Handler{
		health:        health,
		renderer:      renderer,
		logger:        logger,
		validator:     validator.New(),
		settleTimeout: settleTimeout,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// bind decodes a JSON body or a form post into req and validates it.
func (h *Handler) bind(ctx context.Context, w http.ResponseWriter, r *http.Request, req formBinder) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxActionBodyBytes)

	if isJSONRequest(r) {
		decoder := sonic.ConfigDefault.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(req); err != nil {
			return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: invalid form payload: %v", usecase.ErrInvalidInput, err)
		}
		if err := req.bindForm(r.PostForm); err != nil {
			return err
		}
	}

	return h.validateRequest(ctx, req)
}

func (h *Handler) session(ctx context.Context, w http.ResponseWriter) (*Session, bool) {
	sess, ok := sessionFromContext(ctx)
	if !ok {
		writeInternalError(ctx, w)
		return nil, false
	}
	return sess, true
}

// settle waits for the controller to go quiet, bounded by the render timeout. A
// timeout is not an error: the caller renders whatever is committed by then.
func (h *Handler) settle(ctx context.Context, sess *Session) usecase.ViewState {
	settleCtx, cancel := context.WithTimeout(ctx, h.settleTimeout)
	defer cancel()

	if err := sess.Controller.Settle(settleCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		h.logger.DebugContext(ctx, "settle view state ended early", "session_id", sess.ID, "error", err)
	}
	return sess.Controller.Snapshot()
}

// respond finishes an action: JSON clients get the settled state, forms go back to the page.
func (h *Handler) respond(ctx context.Context, w http.ResponseWriter, r *http.Request, sess *Session) {
	if wantsJSON(r) {
		writeSuccess(ctx, w, http.StatusOK, h.settle(ctx, sess))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// rejected answers a request that failed binding. Browsers go back to the page with
// a notice; JSON clients get the error envelope.
func (h *Handler) rejected(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) || !errors.Is(err, usecase.ErrInvalidInput) {
		writeError(ctx, w, err)
		return
	}
	h.logger.DebugContext(ctx, "viewer form rejected", "path", r.URL.Path, "error", err)
	http.Redirect(w, r, "/?notice="+noticeInvalidInput, http.StatusSeeOther)
}

func (h *Handler) actionFailed(ctx context.Context, w http.ResponseWriter, sess *Session, action string, err error) {
	h.logger.WarnContext(ctx, "viewer action failed", "action", action, "session_id", sess.ID, "error", err)
	writeError(ctx, w, err)
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func wantsJSON(r *http.Request) bool {
	return isJSONRequest(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}
