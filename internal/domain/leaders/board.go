package leaders

import "github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"

// DefaultPageSize is the base page size and the "load more" increment.
const DefaultPageSize = 10

// Board is the leaderboard slot: active category, pagination limit and last result.
type Board struct {
	Category Category     `json:"category"`
	PageSize int          `json:"page_size"`
	Limit    int          `json:"limit"`
	HasMore  bool         `json:"has_more"`
	Status   fetch.Status `json:"status"`
	Rows     []Row        `json:"rows"`
	Error    string       `json:"error,omitempty"`
	Seq      fetch.Seq    `json:"seq"`
}

// Ticket identifies one issued leaderboard fetch.
type Ticket struct {
	Seq      fetch.Seq
	Category Category
	Limit    int
}

func NewBoard(initial Category, pageSize int) Board {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if !initial.Valid() {
		initial = CategoryPTS
	}
	return Board{
		Category: initial,
		PageSize: pageSize,
		Limit:    pageSize,
		HasMore:  true,
		Status:   fetch.StatusIdle,
	}
}

// CanLoadMore is false while a fetch is in flight or the list is exhausted.
func (b Board) CanLoadMore() bool {
	return b.HasMore && b.Status != fetch.StatusLoading
}

// SelectCategory resets pagination and issues a fetch, even for the current category.
func (b Board) SelectCategory(c Category) (Board, Ticket) {
	b.Category = c
	b.Limit = b.PageSize
	b.HasMore = true
	return b.issue()
}

// LoadMore grows the limit by one page. It reports false when disabled.
func (b Board) LoadMore() (Board, Ticket, bool) {
	if !b.CanLoadMore() {
		return b, Ticket{}, false
	}
	b.Limit += b.PageSize
	next, ticket := b.issue()
	return next, ticket, true
}

// Retry re-issues the current category and limit.
func (b Board) Retry() (Board, Ticket) {
	return b.issue()
}

func (b Board) issue() (Board, Ticket) {
	b.Seq = b.Seq.Next()
	b.Status = fetch.StatusLoading
	b.Error = ""
	return b, Ticket{Seq: b.Seq, Category: b.Category, Limit: b.Limit}
}

// Resolve commits a response for ticket. Stale tickets are discarded and reported false.
// Rows fully replace the previous list; on error the previous rows stay visible.
func (b Board) Resolve(ticket Ticket, rows []Row, err error) (Board, bool) {
	if ticket.Seq != b.Seq || ticket.Category != b.Category || ticket.Limit != b.Limit {
		return b, false
	}
	if err != nil {
		b.Status = fetch.StatusError
		b.Error = "Couldn't load " + b.Category.Label() + " leaders."
		return b, true
	}

	if len(rows) > ticket.Limit {
		rows = rows[:ticket.Limit]
	}
	b.Rows = append([]Row(nil), rows...)
	b.HasMore = len(rows) >= ticket.Limit
	b.Status = fetch.StatusOK
	b.Error = ""
	return b, true
}
