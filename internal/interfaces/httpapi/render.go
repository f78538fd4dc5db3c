package httpapi

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/navigation"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/format"
	"github.com/riskibarqy/nba-stats-viewer/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ImageURLs builds CDN image links. Implemented by warehouse.Images.
type ImageURLs interface {
	HeadshotURL(playerID int64) string
	TeamLogoURL(teamID int64) string
}

// Renderer turns a ViewState into the viewer page.
type Renderer struct {
	title string
	page  *template.Template
}

type pageData struct {
	Title      string
	Notice     string
	Tabs       []navigation.Tab
	Categories []leaders.Category
	View       usecase.ViewState
}

func NewRenderer(title string, images ImageURLs) (*Renderer, error) {
	if images == nil {
		return nil, fmt.Errorf("image url builder is required")
	}
	funcs := template.FuncMap{
		"pct":       format.Percent,
		"fixed":     format.Fixed,
		"int":       format.Int,
		"signed":    format.Signed,
		"minutes":   format.Minutes,
		"gameDate":  format.GameDate,
		"record":    format.Record,
		"shotLine":  format.ShotLine,
		"timestamp": format.Timestamp,
		"inc":       func(i int) int { return i + 1 },
		"loading":   func(s fetch.Status) bool { return s == fetch.StatusLoading },
		"headshot":  images.HeadshotURL,
		"teamLogo": func(teamID *int64) string {
			if teamID == nil {
				return ""
			}
			return images.TeamLogoURL(*teamID)
		},
		"loadMoreLabel": loadMoreLabel,
		"dict":          dict,
	}

	page, err := template.New("page").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse viewer templates: %w", err)
	}
	if title == "" {
		title = "NBA Stats"
	}
	return &Renderer{title: title, page: page.Lookup("page.html")}, nil
}

// Render executes the page into a pooled buffer first so a template error never
// leaves a half-written response. A non-empty notice is shown above the content.
func (r *Renderer) Render(w http.ResponseWriter, view usecase.ViewState, notice string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := r.render(buf, view, notice); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
	return nil
}

func (r *Renderer) render(out io.Writer, view usecase.ViewState, notice string) error {
	return r.page.Execute(out, pageData{
		Title:      r.title,
		Notice:     notice,
		Tabs:       navigation.Tabs,
		Categories: leaders.Categories,
		View:       view,
	})
}

func loadMoreLabel(b leaders.Board) string {
	switch {
	case b.Status == fetch.StatusLoading:
		return "Loading..."
	case !b.HasMore:
		return "No more players"
	default:
		return "Load more"
	}
}

// dict builds the argument map for nested templates from key/value pairs.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict needs key/value pairs, got %d args", len(kv))
	}
	out := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", kv[i])
		}
		out[key] = kv[i+1]
	}
	return out, nil
}

// StaticHandler serves the embedded stylesheet.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
