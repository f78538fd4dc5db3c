package leaders

import "fmt"

// Category is one leaderboard ranking.
type Category string

const (
	Category3PT Category = "3pt"
	CategoryFG  Category = "fg"
	CategoryPTS Category = "pts"
	CategoryREB Category = "reb"
	CategoryAST Category = "ast"
	CategoryBLK Category = "blk"
)

// Categories lists the category pills in display order.
var Categories = []Category{CategoryPTS, CategoryREB, CategoryAST, CategoryBLK, CategoryFG, Category3PT}

func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown leaderboard category %q", raw)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case Category3PT, CategoryFG, CategoryPTS, CategoryREB, CategoryAST, CategoryBLK:
		return true
	default:
		return false
	}
}

// Percentage reports whether the category ranks a shooting percentage.
func (c Category) Percentage() bool {
	return c == Category3PT || c == CategoryFG
}

func (c Category) Label() string {
	switch c {
	case Category3PT:
		return "3PT%"
	case CategoryFG:
		return "FG%"
	case CategoryPTS:
		return "Points"
	case CategoryREB:
		return "Rebounds"
	case CategoryAST:
		return "Assists"
	case CategoryBLK:
		return "Blocks"
	default:
		return string(c)
	}
}

// ValueLabel is the column heading of the ranked value.
func (c Category) ValueLabel() string {
	switch c {
	case Category3PT:
		return "3P%"
	case CategoryFG:
		return "FG%"
	case CategoryPTS:
		return "PPG"
	case CategoryREB:
		return "RPG"
	case CategoryAST:
		return "APG"
	case CategoryBLK:
		return "BPG"
	default:
		return "Value"
	}
}

// Row is one ranked player. Volume categories fill Value and Total; 3PT fills FG3Pct,
// FG3M and FG3A; FG fills Value as a 0..1 ratio.
type Row struct {
	PlayerID         int64    `json:"player_id"`
	PlayerName       string   `json:"player_name"`
	TeamAbbreviation string   `json:"team_abbreviation,omitempty"`
	GamesPlayed      int      `json:"gp"`
	Value            *float64 `json:"value,omitempty"`
	Total            *int     `json:"total,omitempty"`
	FG3Pct           *float64 `json:"fg3_pct,omitempty"`
	FG3M             *int     `json:"fg3m,omitempty"`
	FG3A             *int     `json:"fg3a,omitempty"`
}

// Metric returns the value the row is ranked by.
func (r Row) Metric() *float64 {
	if r.FG3Pct != nil {
		return r.FG3Pct
	}
	return r.Value
}

// Page is one leaderboard response.
type Page struct {
	Season string `json:"season"`
	Rows   []Row  `json:"leaders"`
}
