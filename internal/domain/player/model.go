package player

// SearchHit is one typeahead result.
type SearchHit struct {
	PlayerID int64  `json:"nba_player_id"`
	FullName string `json:"full_name"`
	TeamID   *int64 `json:"nba_team_id,omitempty"`
}

// GameRow is one game of a player's log. Any stat may be absent.
type GameRow struct {
	GameID    string   `json:"nba_game_id"`
	GameDate  *string  `json:"game_date,omitempty"`
	TeamID    *int64   `json:"nba_team_id,omitempty"`
	Minutes   *string  `json:"minutes,omitempty"`
	FGPct     *float64 `json:"fg_pct,omitempty"`
	Points    *int     `json:"pts,omitempty"`
	Rebounds  *int     `json:"reb,omitempty"`
	Assists   *int     `json:"ast,omitempty"`
	Steals    *int     `json:"stl,omitempty"`
	Blocks    *int     `json:"blk,omitempty"`
	Turnovers *int     `json:"tov,omitempty"`
	FG3M      *int     `json:"fg3m,omitempty"`
	FG3A      *int     `json:"fg3a,omitempty"`
	PlusMinus *int     `json:"plus_minus,omitempty"`
}

// Averages are computed server-side over the returned window.
type Averages struct {
	Points    *float64 `json:"pts,omitempty"`
	Rebounds  *float64 `json:"reb,omitempty"`
	Assists   *float64 `json:"ast,omitempty"`
	Steals    *float64 `json:"stl,omitempty"`
	Blocks    *float64 `json:"blk,omitempty"`
	Turnovers *float64 `json:"tov,omitempty"`
	Minutes   *float64 `json:"min,omitempty"`
	FGPct     *float64 `json:"fg_pct,omitempty"`
	FG3Pct    *float64 `json:"fg3_pct,omitempty"`
	FTPct     *float64 `json:"ft_pct,omitempty"`
}

// GameLog is the game window of one player plus its averages.
type GameLog struct {
	PlayerID int64     `json:"nba_player_id"`
	Window   int       `json:"n"`
	Averages Averages  `json:"averages"`
	Games    []GameRow `json:"games"`
}

// Window sizes for the game log.
const (
	DefaultWindow = 10
	// AllGamesWindow stands in for "every game this season".
	AllGamesWindow = 1000
)
