package httpapi

import (
	"net/http"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/navigation"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
)

func (h *Handler) RequestTab(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestTab")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	var req tabRequest
	if err := h.bind(ctx, w, r, &req); err != nil {
		h.rejected(ctx, w, r, err)
		return
	}

	if _, err := sess.Controller.RequestTab(ctx, navigation.Tab(req.To)); err != nil {
		h.actionFailed(ctx, w, sess, "tab", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectCategory")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	var req categoryRequest
	if err := h.bind(ctx, w, r, &req); err != nil {
		h.rejected(ctx, w, r, err)
		return
	}

	if err := sess.Controller.SelectCategory(ctx, leaders.Category(req.Category)); err != nil {
		h.actionFailed(ctx, w, sess, "leaders.category", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) LoadMoreLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoadMoreLeaders")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	issued, err := sess.Controller.LoadMore(ctx)
	if err != nil {
		h.actionFailed(ctx, w, sess, "leaders.more", err)
		return
	}
	if !issued {
		h.logger.DebugContext(ctx, "load more ignored", "session_id", sess.ID)
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) RetryLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RetryLeaders")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	if err := sess.Controller.RetryLeaders(ctx); err != nil {
		h.actionFailed(ctx, w, sess, "leaders.retry", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) OpenLeader(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenLeader")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	var req openLeaderRequest
	if err := h.bind(ctx, w, r, &req); err != nil {
		h.rejected(ctx, w, r, err)
		return
	}

	if err := sess.Controller.OpenLeader(ctx, req.PlayerID, req.Name); err != nil {
		h.actionFailed(ctx, w, sess, "leaders.open", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) TypeQuery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TypeQuery")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	var req searchRequest
	if err := h.bind(ctx, w, r, &req); err != nil {
		h.rejected(ctx, w, r, err)
		return
	}

	if err := sess.Controller.TypeQuery(ctx, req.Query); err != nil {
		h.actionFailed(ctx, w, sess, "search", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) SelectPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectPlayer")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	var req selectPlayerRequest
	if err := h.bind(ctx, w, r, &req); err != nil {
		h.rejected(ctx, w, r, err)
		return
	}

	hit := player.SearchHit{PlayerID: req.PlayerID, FullName: req.Name, TeamID: req.TeamID}
	if err := sess.Controller.SelectPlayer(ctx, hit); err != nil {
		h.actionFailed(ctx, w, sess, "players.select", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) ToggleAllGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleAllGames")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	if _, err := sess.Controller.ToggleAllGames(ctx); err != nil {
		h.actionFailed(ctx, w, sess, "players.all", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) RetryPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RetryPlayer")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	if _, err := sess.Controller.RetryPlayer(ctx); err != nil {
		h.actionFailed(ctx, w, sess, "players.retry", err)
		return
	}
	h.respond(ctx, w, r, sess)
}

func (h *Handler) ReloadStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReloadStandings")
	defer span.End()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	if err := sess.Controller.ReloadStandings(ctx); err != nil {
		h.actionFailed(ctx, w, sess, "standings.reload", err)
		return
	}
	h.respond(ctx, w, r, sess)
}
