package navigation

import "time"

// Tab is a top-level view of the viewer.
type Tab string

const (
	TabLeaders   Tab = "leaders"
	TabPlayers   Tab = "players"
	TabStandings Tab = "standings"
)

// Tabs lists the tab bar order.
var Tabs = []Tab{TabLeaders, TabPlayers, TabStandings}

func (t Tab) Valid() bool {
	switch t {
	case TabLeaders, TabPlayers, TabStandings:
		return true
	default:
		return false
	}
}

func (t Tab) Label() string {
	switch t {
	case TabLeaders:
		return "Leaders"
	case TabPlayers:
		return "Players"
	case TabStandings:
		return "Standings"
	default:
		return string(t)
	}
}

type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseTransitioning Phase = "transitioning"
)

// Delays configures one transition. Unlock is measured from transition start.
type Delays struct {
	Swap   time.Duration
	Unlock time.Duration
}

// Valid reports whether content can never become interactive before the swap.
func (d Delays) Valid() bool {
	return d.Swap >= 0 && d.Unlock >= d.Swap
}
