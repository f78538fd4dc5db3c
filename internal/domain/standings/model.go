package standings

import "time"

// Row is one team of the standings snapshot. Numeric fields may be absent.
type Row struct {
	TeamID      int64    `json:"team_id"`
	TeamName    string   `json:"team_name"`
	TeamCity    string   `json:"team_city"`
	TeamSlug    string   `json:"team_slug,omitempty"`
	Conference  string   `json:"conference"`
	PlayoffRank *int     `json:"playoff_rank,omitempty"`
	Wins        *int     `json:"wins,omitempty"`
	Losses      *int     `json:"losses,omitempty"`
	WinPct      *float64 `json:"win_pct,omitempty"`
	Home        string   `json:"home,omitempty"`
	Road        string   `json:"road,omitempty"`
	L10         string   `json:"l10,omitempty"`
	Streak      string   `json:"streak,omitempty"`
}

// Table is one season snapshot as served by the warehouse.
type Table struct {
	Season      string     `json:"season"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Rows        []Row      `json:"teams"`
}
