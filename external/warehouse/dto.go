package warehouse

import (
	"strings"
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/standings"
)

type leadersResponse struct {
	Season  string        `json:"season"`
	Count   int           `json:"count"`
	Leaders []leaders.Row `json:"leaders"`
}

func (r leadersResponse) toDomain(query leaders.Query) leaders.Page {
	season := r.Season
	if season == "" {
		season = query.Season
	}
	return leaders.Page{Season: season, Rows: r.Leaders}
}

type searchResponse struct {
	Query   string             `json:"query"`
	Count   int                `json:"count"`
	Players []player.SearchHit `json:"players"`
}

type gameLogResponse struct {
	PlayerID int64            `json:"nba_player_id"`
	Season   string           `json:"season"`
	N        int              `json:"n"`
	Count    int              `json:"count"`
	Averages *player.Averages `json:"averages"`
	Games    []player.GameRow `json:"games"`
}

func (r gameLogResponse) toDomain(playerID int64, n int) player.GameLog {
	out := player.GameLog{
		PlayerID: r.PlayerID,
		Window:   r.N,
		Games:    r.Games,
	}
	if out.PlayerID == 0 {
		out.PlayerID = playerID
	}
	if out.Window == 0 {
		out.Window = n
	}
	if r.Averages != nil {
		out.Averages = *r.Averages
	}
	return out
}

type standingsResponse struct {
	Season      string          `json:"season"`
	GeneratedAt *string         `json:"generated_at"`
	Count       int             `json:"count"`
	Teams       []standings.Row `json:"teams"`
}

func (r standingsResponse) toDomain(season string) standings.Table {
	out := standings.Table{Season: r.Season, Rows: r.Teams}
	if out.Season == "" {
		out.Season = season
	}
	if r.GeneratedAt != nil {
		if ts, ok := parseTimestamp(*r.GeneratedAt); ok {
			out.GeneratedAt = &ts
		}
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
}

// parseTimestamp accepts the backend's naive ISO timestamps with or without a trailing Z.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	candidates := []string{raw}
	if trimmed := strings.TrimSuffix(raw, "Z"); trimmed != raw {
		candidates = append(candidates, trimmed)
	}
	for _, candidate := range candidates {
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, candidate); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
