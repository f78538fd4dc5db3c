package player

import (
	"strings"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"
)

// Search is the typeahead slot.
type Search struct {
	Query  string       `json:"query"`
	Status fetch.Status `json:"status"`
	Hits   []SearchHit  `json:"hits"`
	Error  string       `json:"error,omitempty"`
	Seq    fetch.Seq    `json:"seq"`
}

// SearchTicket identifies one issued search.
type SearchTicket struct {
	Seq   fetch.Seq
	Query string
}

func NewSearch() Search {
	return Search{Status: fetch.StatusIdle}
}

// Type records raw input. An empty trimmed query resets the slot immediately and
// invalidates any in-flight request; otherwise it reports true so the caller can
// arm the debounce timer.
func (s Search) Type(raw string) (Search, bool) {
	s.Query = raw
	if strings.TrimSpace(raw) == "" {
		return s.reset(), false
	}
	return s, true
}

// Issue is called when the debounce interval elapses.
func (s Search) Issue() (Search, SearchTicket, bool) {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return s.reset(), SearchTicket{}, false
	}
	s.Seq = s.Seq.Next()
	s.Status = fetch.StatusLoading
	s.Error = ""
	return s, SearchTicket{Seq: s.Seq, Query: q}, true
}

// Resolve commits hits only for the latest issued ticket.
func (s Search) Resolve(ticket SearchTicket, hits []SearchHit, err error) (Search, bool) {
	if ticket.Seq != s.Seq || s.Status != fetch.StatusLoading {
		return s, false
	}
	if err != nil {
		s.Status = fetch.StatusError
		s.Error = "Couldn't search players."
		return s, true
	}
	s.Hits = append([]SearchHit(nil), hits...)
	s.Status = fetch.StatusOK
	s.Error = ""
	return s, true
}

// Clear empties query and results, as after a selection.
func (s Search) Clear() Search {
	s.Query = ""
	return s.reset()
}

func (s Search) reset() Search {
	s.Seq = s.Seq.Next()
	s.Status = fetch.StatusIdle
	s.Hits = nil
	s.Error = ""
	return s
}
