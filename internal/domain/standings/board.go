package standings

import "github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"

// Board is the standings slot.
type Board struct {
	Season string       `json:"season"`
	Status fetch.Status `json:"status"`
	Table  *Table       `json:"table,omitempty"`
	View   Partition    `json:"view"`
	Error  string       `json:"error,omitempty"`
	Seq    fetch.Seq    `json:"seq"`
}

// Ticket identifies one issued standings fetch.
type Ticket struct {
	Seq    fetch.Seq
	Season string
}

func NewBoard(season string) Board {
	return Board{Season: season, Status: fetch.StatusIdle}
}

// Loaded reports whether a snapshot has been committed.
func (b Board) Loaded() bool {
	return b.Table != nil
}

// Load issues a fetch of the season snapshot.
func (b Board) Load() (Board, Ticket) {
	b.Seq = b.Seq.Next()
	b.Status = fetch.StatusLoading
	b.Error = ""
	return b, Ticket{Seq: b.Seq, Season: b.Season}
}

// Resolve commits the snapshot and its partition. On error the previous table stays.
func (b Board) Resolve(ticket Ticket, table Table, err error) (Board, bool) {
	if ticket.Seq != b.Seq || ticket.Season != b.Season {
		return b, false
	}
	if err != nil {
		b.Status = fetch.StatusError
		b.Error = "Couldn't load standings."
		return b, true
	}

	snapshot := table
	snapshot.Rows = append([]Row(nil), table.Rows...)
	b.Table = &snapshot
	b.View = Split(snapshot.Rows)
	b.Status = fetch.StatusOK
	b.Error = ""
	return b, true
}
