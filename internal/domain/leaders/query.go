package leaders

// Policy holds the fixed season and qualification thresholds applied to every request.
type Policy struct {
	Season         string
	MinGamesPlayed int
	Min3PA         int
	MinFGA         int
}

func DefaultPolicy(season string) Policy {
	return Policy{
		Season:         season,
		MinGamesPlayed: 10,
		Min3PA:         50,
		MinFGA:         100,
	}
}

// Query is the deterministic request for one category page.
type Query struct {
	Category       Category
	Season         string
	MinGamesPlayed int
	// MinAttempts is only sent for percentage categories (min_3pa or min_fga).
	MinAttempts int
	Limit       int
}

func (p Policy) Query(c Category, limit int) Query {
	q := Query{
		Category:       c,
		Season:         p.Season,
		MinGamesPlayed: p.MinGamesPlayed,
		Limit:          limit,
	}
	switch c {
	case Category3PT:
		q.MinAttempts = p.Min3PA
	case CategoryFG:
		q.MinAttempts = p.MinFGA
	}
	return q
}

// AttemptsParam names the min-attempts query parameter, empty for volume categories.
func (q Query) AttemptsParam() string {
	switch q.Category {
	case Category3PT:
		return "min_3pa"
	case CategoryFG:
		return "min_fga"
	default:
		return ""
	}
}
