package player

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"
)

// Link is a deep link from a leaderboard row awaiting resolution.
type Link struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
}

// Detail is the player view slot. Selected, Averages and Games always describe the
// same player: stats are only committed for the current selection.
type Detail struct {
	Selected      *SearchHit   `json:"selected,omitempty"`
	Linking       *Link        `json:"linking,omitempty"`
	Unresolved    *Link        `json:"unresolved,omitempty"`
	ShowAll       bool         `json:"show_all"`
	DefaultWindow int          `json:"default_window"`
	Window        int          `json:"window"`
	Status        fetch.Status `json:"status"`
	Averages      *Averages    `json:"averages,omitempty"`
	Games         []GameRow    `json:"games"`
	Error         string       `json:"error,omitempty"`
	Seq           fetch.Seq    `json:"seq"`
}

// LogTicket identifies one issued game log fetch.
type LogTicket struct {
	Seq      fetch.Seq
	PlayerID int64
	Window   int
}

// LinkTicket identifies one issued deep-link name search.
type LinkTicket struct {
	Seq      fetch.Seq
	PlayerID int64
	Name     string
}

func NewDetail(defaultWindow int) Detail {
	if defaultWindow < 1 {
		defaultWindow = DefaultWindow
	}
	return Detail{
		DefaultWindow: defaultWindow,
		Window:        defaultWindow,
		Status:        fetch.StatusIdle,
	}
}

// WindowLabel drives the "Last N" / "All games" heading.
func (d Detail) WindowLabel() string {
	if d.ShowAll {
		return "All games"
	}
	return "Last " + strconv.Itoa(d.DefaultWindow)
}

// Select commits a player immediately and issues the default-window log fetch.
func (d Detail) Select(hit SearchHit) (Detail, LogTicket) {
	selected := hit
	d.Seq = d.Seq.Next()
	d.Selected = &selected
	d.Linking = nil
	d.Unresolved = nil
	d.ShowAll = false
	d.Window = d.DefaultWindow
	d.Averages = nil
	d.Games = nil
	d.Status = fetch.StatusLoading
	d.Error = ""
	return d, LogTicket{Seq: d.Seq, PlayerID: hit.PlayerID, Window: d.Window}
}

// BeginLink clears any stale selection and starts resolving a leaderboard row.
func (d Detail) BeginLink(playerID int64, name string) (Detail, LinkTicket) {
	d = d.Clear()
	d.Linking = &Link{PlayerID: playerID, Name: strings.TrimSpace(name)}
	d.Status = fetch.StatusLoading
	return d, LinkTicket{Seq: d.Seq, PlayerID: playerID, Name: d.Linking.Name}
}

// Awaiting reports whether ticket is the deep link this slot is still resolving.
func (d Detail) Awaiting(ticket LinkTicket) bool {
	return ticket.Seq == d.Seq && d.Linking != nil && d.Linking.PlayerID == ticket.PlayerID
}

// ResolveLink scans name-search hits for the exact player id. On a match it selects
// the player and reports the log fetch to issue. A miss is surfaced as an error
// naming the player; a mismatched player is never selected.
func (d Detail) ResolveLink(ticket LinkTicket, hits []SearchHit, err error) (Detail, LogTicket, bool) {
	if !d.Awaiting(ticket) {
		return d, LogTicket{}, false
	}
	link := *d.Linking

	if err != nil {
		d.Linking = nil
		d.Status = fetch.StatusError
		d.Error = "Couldn't open " + displayName(link) + "."
		return d, LogTicket{}, false
	}

	for _, hit := range hits {
		if hit.PlayerID == ticket.PlayerID {
			next, logTicket := d.Select(hit)
			return next, logTicket, true
		}
	}

	d.Linking = nil
	d.Unresolved = &link
	d.Status = fetch.StatusError
	d.Error = displayName(link) + " isn't in the player index yet."
	return d, LogTicket{}, false
}

// ToggleAll flips between the default window and every game, re-fetching the same player.
func (d Detail) ToggleAll() (Detail, LogTicket, bool) {
	if d.Selected == nil {
		return d, LogTicket{}, false
	}
	d.ShowAll = !d.ShowAll
	d.Window = d.DefaultWindow
	if d.ShowAll {
		d.Window = AllGamesWindow
	}
	d.Seq = d.Seq.Next()
	d.Status = fetch.StatusLoading
	d.Error = ""
	return d, LogTicket{Seq: d.Seq, PlayerID: d.Selected.PlayerID, Window: d.Window}, true
}

// Retry re-issues the log fetch for the current selection.
func (d Detail) Retry() (Detail, LogTicket, bool) {
	if d.Selected == nil {
		return d, LogTicket{}, false
	}
	d.Seq = d.Seq.Next()
	d.Status = fetch.StatusLoading
	d.Error = ""
	return d, LogTicket{Seq: d.Seq, PlayerID: d.Selected.PlayerID, Window: d.Window}, true
}

// ResolveLog commits averages and games together, only for the latest ticket of the
// currently selected player.
func (d Detail) ResolveLog(ticket LogTicket, log GameLog, err error) (Detail, bool) {
	if ticket.Seq != d.Seq || d.Selected == nil || d.Selected.PlayerID != ticket.PlayerID {
		return d, false
	}
	if err != nil {
		d.Status = fetch.StatusError
		d.Error = "Couldn't load stats for " + d.Selected.FullName + "."
		return d, true
	}

	averages := log.Averages
	d.Averages = &averages
	d.Games = append([]GameRow(nil), log.Games...)
	d.Status = fetch.StatusOK
	d.Error = ""
	return d, true
}

// Clear drops selection and stats together and invalidates in-flight fetches.
func (d Detail) Clear() Detail {
	d.Seq = d.Seq.Next()
	d.Selected = nil
	d.Linking = nil
	d.Unresolved = nil
	d.ShowAll = false
	d.Window = d.DefaultWindow
	d.Averages = nil
	d.Games = nil
	d.Status = fetch.StatusIdle
	d.Error = ""
	return d
}

func displayName(l Link) string {
	if l.Name != "" {
		return l.Name
	}
	return "player #" + strconv.FormatInt(l.PlayerID, 10)
}
