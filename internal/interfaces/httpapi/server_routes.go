package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
	mux.Handle("GET /static/", StaticHandler())
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerViewerRoutes(mux *http.ServeMux, handler *Handler, sessions *Sessions) {
	mux.Handle("GET /{$}", sessions.Middleware(http.HandlerFunc(handler.Page)))
	mux.Handle("GET /api/state", sessions.Middleware(http.HandlerFunc(handler.State)))
}

func registerActionRoutes(mux *http.ServeMux, handler *Handler, sessions *Sessions) {
	action := func(h http.HandlerFunc) http.Handler {
		return sessions.Middleware(sessions.LimitActions(h))
	}

	mux.Handle("POST /actions/tab", action(handler.RequestTab))
	mux.Handle("POST /actions/leaders/category", action(handler.SelectCategory))
	mux.Handle("POST /actions/leaders/more", action(handler.LoadMoreLeaders))
	mux.Handle("POST /actions/leaders/retry", action(handler.RetryLeaders))
	mux.Handle("POST /actions/leaders/open", action(handler.OpenLeader))
	mux.Handle("POST /actions/search", action(handler.TypeQuery))
	mux.Handle("POST /actions/players/select", action(handler.SelectPlayer))
	mux.Handle("POST /actions/players/all", action(handler.ToggleAllGames))
	mux.Handle("POST /actions/players/retry", action(handler.RetryPlayer))
	mux.Handle("POST /actions/standings/reload", action(handler.ReloadStandings))
}
