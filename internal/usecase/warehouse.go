package usecase

import (
	"context"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/standings"
)

// Warehouse is the read-only stats backend. Every failure is reported marked with ErrRemote.
type Warehouse interface {
	Leaders(ctx context.Context, query leaders.Query) (leaders.Page, error)
	SearchPlayers(ctx context.Context, query string, limit int) ([]player.SearchHit, error)
	PlayerGameLog(ctx context.Context, playerID int64, n int) (player.GameLog, error)
	Standings(ctx context.Context, season string) (standings.Table, error)
}

// Executor runs fetch tasks off the caller's goroutine. *ants.Pool satisfies it.
// Submit is also called from inside running tasks, so it must return an error
// rather than block when saturated.
type Executor interface {
	Submit(task func()) error
}

// InlineExecutor runs tasks on the submitting goroutine.
type InlineExecutor struct{}

func (InlineExecutor) Submit(task func()) error {
	task()
	return nil
}
