package usecase

import (
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/navigation"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/standings"
)

// ViewState is a read-only copy of one session's state for presentation.
type ViewState struct {
	Version     uint64           `json:"version"`
	Season      string           `json:"season"`
	Navigation  navigation.State `json:"navigation"`
	Leaders     leaders.Board    `json:"leaders"`
	CanLoadMore bool             `json:"can_load_more"`
	Search      player.Search    `json:"search"`
	Player      player.Detail    `json:"player"`
	WindowLabel string           `json:"window_label"`
	Standings   standings.Board  `json:"standings"`
	// Settled is false while a fetch, debounce or tab transition is pending.
	Settled bool `json:"settled"`
}
