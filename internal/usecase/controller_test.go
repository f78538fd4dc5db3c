package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/navigation"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/standings"
	usecasemock "github.com/riskibarqy/nba-stats-viewer/internal/mocks/usecase"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/clock"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSeason = "2025-26"

// queueExecutor holds submitted fetches until the test releases them, in any order.
type queueExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queueExecutor) Submit(task func()) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *queueExecutor) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *queueExecutor) Run(i int) {
	q.mu.Lock()
	task := q.tasks[i]
	q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
	q.mu.Unlock()
	task()
}

func (q *queueExecutor) Drain() {
	for q.Len() > 0 {
		q.Run(0)
	}
}

type goExecutor struct{}

func (goExecutor) Submit(task func()) error {
	go task()
	return nil
}

type outcomeLog struct {
	mu      sync.Mutex
	entries []string
}

func (o *outcomeLog) observe(slot Slot, outcome Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, string(slot)+":"+string(outcome))
}

func (o *outcomeLog) all() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.entries...)
}

type harness struct {
	ctrl      *Controller
	warehouse *usecasemock.Warehouse
	clock     *clock.Manual
	outcomes  *outcomeLog
}

func newHarness(t *testing.T, exec Executor) harness {
	t.Helper()

	warehouse := usecasemock.NewWarehouse(t)
	clk := clock.NewManual(time.Date(2026, 1, 20, 19, 0, 0, 0, time.UTC))
	outcomes := &outcomeLog{}

	cfg := DefaultControllerConfig(testSeason)
	cfg.TabDelays = navigation.Delays{Swap: 150 * time.Millisecond, Unlock: 400 * time.Millisecond}
	cfg.Observer = outcomes.observe

	ctrl := NewController(warehouse, exec, clk, logging.NewNop(), cfg)
	t.Cleanup(ctrl.Close)
	return harness{ctrl: ctrl, warehouse: warehouse, clock: clk, outcomes: outcomes}
}

func leaderRows(n int) []leaders.Row {
	rows := make([]leaders.Row, 0, n)
	for i := 0; i < n; i++ {
		v := 30.0 - float64(i)
		rows = append(rows, leaders.Row{PlayerID: int64(1000 + i), PlayerName: fmt.Sprintf("Player %d", i), GamesPlayed: 40, Value: &v})
	}
	return rows
}

func ptsQuery(limit int) leaders.Query {
	return leaders.DefaultPolicy(testSeason).Query(leaders.CategoryPTS, limit)
}

func curryLog(games int) player.GameLog {
	pts := 26.4
	rows := make([]player.GameRow, games)
	for i := range rows {
		rows[i].GameID = fmt.Sprintf("002250%04d", i)
	}
	return player.GameLog{PlayerID: 201, Window: games, Averages: player.Averages{Points: &pts}, Games: rows}
}

func TestController_LoadMoreExhaustsOnShortPage(t *testing.T) {
	t.Parallel()

	h := newHarness(t, InlineExecutor{})
	ctx := context.Background()

	h.warehouse.On("Leaders", mock.Anything, ptsQuery(10)).Return(leaders.Page{Season: testSeason, Rows: leaderRows(10)}, nil).Once()
	h.warehouse.On("Leaders", mock.Anything, ptsQuery(20)).Return(leaders.Page{Season: testSeason, Rows: leaderRows(17)}, nil).Once()

	require.NoError(t, h.ctrl.SelectCategory(ctx, leaders.CategoryPTS))
	state := h.ctrl.Snapshot()
	require.Len(t, state.Leaders.Rows, 10)
	require.True(t, state.Leaders.HasMore)
	require.True(t, state.CanLoadMore)

	issued, err := h.ctrl.LoadMore(ctx)
	require.NoError(t, err)
	require.True(t, issued)

	state = h.ctrl.Snapshot()
	require.Equal(t, 20, state.Leaders.Limit)
	require.Len(t, state.Leaders.Rows, 17)
	require.False(t, state.Leaders.HasMore)
	require.False(t, state.CanLoadMore)

	issued, err = h.ctrl.LoadMore(ctx)
	require.NoError(t, err)
	require.False(t, issued)
}

func TestController_LoadMoreDisabledWhileLoading(t *testing.T) {
	t.Parallel()

	exec := &queueExecutor{}
	h := newHarness(t, exec)
	ctx := context.Background()

	require.NoError(t, h.ctrl.SelectCategory(ctx, leaders.CategoryREB))
	require.False(t, h.ctrl.Snapshot().CanLoadMore)

	issued, err := h.ctrl.LoadMore(ctx)
	require.NoError(t, err)
	require.False(t, issued)
	require.Equal(t, 1, exec.Len())
}

func TestController_CategorySwitchDiscardsSlowerPreviousCategory(t *testing.T) {
	t.Parallel()

	exec := &queueExecutor{}
	h := newHarness(t, exec)
	ctx := context.Background()
	astQuery := leaders.DefaultPolicy(testSeason).Query(leaders.CategoryAST, 10)

	h.warehouse.On("Leaders", mock.Anything, ptsQuery(10)).Return(leaders.Page{Rows: leaderRows(10)}, nil).Once()
	h.warehouse.On("Leaders", mock.Anything, astQuery).Return(leaders.Page{Rows: leaderRows(4)}, nil).Once()

	require.NoError(t, h.ctrl.SelectCategory(ctx, leaders.CategoryPTS))
	require.NoError(t, h.ctrl.SelectCategory(ctx, leaders.CategoryAST))
	state := h.ctrl.Snapshot()
	require.Equal(t, 10, state.Leaders.Limit)
	require.True(t, state.Leaders.HasMore)

	exec.Run(1)
	exec.Run(0)

	state = h.ctrl.Snapshot()
	require.Equal(t, leaders.CategoryAST, state.Leaders.Category)
	require.Len(t, state.Leaders.Rows, 4)
	require.Equal(t, []string{"leaders:committed", "leaders:stale"}, h.outcomes.all())
}

func TestController_LeadersErrorKeepsLastGoodRows(t *testing.T) {
	t.Parallel()

	h := newHarness(t, InlineExecutor{})
	ctx := context.Background()

	h.warehouse.On("Leaders", mock.Anything, ptsQuery(10)).Return(leaders.Page{Rows: leaderRows(10)}, nil).Once()
	h.warehouse.On("Leaders", mock.Anything, ptsQuery(20)).Return(leaders.Page{}, ErrRemote).Once()

	require.NoError(t, h.ctrl.SelectCategory(ctx, leaders.CategoryPTS))
	_, err := h.ctrl.LoadMore(ctx)
	require.NoError(t, err)

	state := h.ctrl.Snapshot()
	require.Equal(t, fetch.StatusError, state.Leaders.Status)
	require.Len(t, state.Leaders.Rows, 10)
	require.Equal(t, "Couldn't load Points leaders.", state.Leaders.Error)
}

func TestController_SearchDebounceThenSelect(t *testing.T) {
	t.Parallel()

	exec := &queueExecutor{}
	h := newHarness(t, exec)
	ctx := context.Background()

	curry := player.SearchHit{PlayerID: 201, FullName: "Stephen Curry"}
	h.warehouse.On("SearchPlayers", mock.Anything, "cur", 10).Return([]player.SearchHit{curry}, nil).Once()
	h.warehouse.On("PlayerGameLog", mock.Anything, int64(201), 10).Return(curryLog(10), nil).Once()

	for _, q := range []string{"c", "cu", "cur"} {
		require.NoError(t, h.ctrl.TypeQuery(ctx, q))
		h.clock.Advance(100 * time.Millisecond)
	}
	require.Zero(t, exec.Len(), "no request before the quiet interval")

	h.clock.Advance(149 * time.Millisecond)
	require.Zero(t, exec.Len())
	h.clock.Advance(time.Millisecond)
	require.Equal(t, 1, exec.Len())

	exec.Drain()
	state := h.ctrl.Snapshot()
	require.Equal(t, []player.SearchHit{curry}, state.Search.Hits)

	require.NoError(t, h.ctrl.SelectPlayer(ctx, curry))
	state = h.ctrl.Snapshot()
	require.Empty(t, state.Search.Query)
	require.Empty(t, state.Search.Hits)
	require.Equal(t, int64(201), state.Player.Selected.PlayerID)
	require.Nil(t, state.Player.Averages)
	require.Nil(t, state.Player.Games)

	exec.Drain()
	state = h.ctrl.Snapshot()
	require.NotNil(t, state.Player.Averages)
	require.Len(t, state.Player.Games, 10)
	require.Equal(t, "Last 10", state.WindowLabel)
}

func TestController_EmptyQueryClearsAndBeatsLateResponse(t *testing.T) {
	t.Parallel()

	exec := &queueExecutor{}
	h := newHarness(t, exec)
	ctx := context.Background()

	h.warehouse.On("SearchPlayers", mock.Anything, "cur", 10).
		Return([]player.SearchHit{{PlayerID: 201, FullName: "Stephen Curry"}}, nil).Once()

	require.NoError(t, h.ctrl.TypeQuery(ctx, "cur"))
	h.clock.Advance(250 * time.Millisecond)
	require.Equal(t, 1, exec.Len())

	require.NoError(t, h.ctrl.TypeQuery(ctx, "   "))
	state := h.ctrl.Snapshot()
	require.Equal(t, fetch.StatusIdle, state.Search.Status)
	require.Empty(t, state.Search.Hits)

	exec.Drain()
	state = h.ctrl.Snapshot()
	require.Empty(t, state.Search.Hits)
	require.Equal(t, fetch.StatusIdle, state.Search.Status)
	require.Equal(t, []string{"search:stale"}, h.outcomes.all())
}

func TestController_WhitespaceQueryNeverArmsTimer(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &queueExecutor{})
	require.NoError(t, h.ctrl.TypeQuery(context.Background(), " \t "))
	require.Zero(t, h.clock.Pending())
	require.True(t, h.ctrl.Snapshot().Settled)
}

func TestController_TabRequestedTwiceSwapsOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &queueExecutor{})
	ctx := context.Background()

	started, err := h.ctrl.RequestTab(ctx, navigation.TabPlayers)
	require.NoError(t, err)
	require.True(t, started)

	started, err = h.ctrl.RequestTab(ctx, navigation.TabStandings)
	require.NoError(t, err)
	require.False(t, started)

	h.clock.Advance(150 * time.Millisecond)
	state := h.ctrl.Snapshot()
	require.Equal(t, navigation.TabPlayers, state.Navigation.Active)
	require.True(t, state.Navigation.Transitioning())

	h.clock.Advance(250 * time.Millisecond)
	state = h.ctrl.Snapshot()
	require.Equal(t, navigation.TabPlayers, state.Navigation.Active)
	require.Equal(t, navigation.PhaseIdle, state.Navigation.Phase)
	require.Empty(t, state.Navigation.Pending)

	_, err = h.ctrl.RequestTab(ctx, navigation.Tab("box-scores"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestController_EnteringStandingsFetchesOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, InlineExecutor{})
	ctx := context.Background()

	table := standings.Table{Season: testSeason, Rows: []standings.Row{
		{TeamID: 1, Conference: "Eastern Conference"},
		{TeamID: 2, Conference: "Western Conference"},
	}}
	h.warehouse.On("Standings", mock.Anything, testSeason).Return(table, nil).Once()

	_, err := h.ctrl.RequestTab(ctx, navigation.TabStandings)
	require.NoError(t, err)
	h.clock.Advance(400 * time.Millisecond)

	_, err = h.ctrl.RequestTab(ctx, navigation.TabLeaders)
	require.NoError(t, err)
	h.warehouse.On("Leaders", mock.Anything, ptsQuery(10)).Return(leaders.Page{Rows: leaderRows(10)}, nil).Once()
	h.clock.Advance(400 * time.Millisecond)

	_, err = h.ctrl.RequestTab(ctx, navigation.TabStandings)
	require.NoError(t, err)
	h.clock.Advance(400 * time.Millisecond)

	state := h.ctrl.Snapshot()
	require.True(t, state.Standings.View.Split)
	require.Len(t, state.Standings.View.East, 1)
	require.Len(t, state.Standings.View.West, 1)
}

func TestController_DeepLinkSelectsExactIDAmongNearDuplicates(t *testing.T) {
	t.Parallel()

	exec := &queueExecutor{}
	h := newHarness(t, exec)
	ctx := context.Background()

	hits := []player.SearchHit{
		{PlayerID: 1629029, FullName: "Jalen Williams"},
		{PlayerID: 1631114, FullName: "Jalen Williams"},
		{PlayerID: 1630592, FullName: "Jaylin Williams"},
	}
	h.warehouse.On("SearchPlayers", mock.Anything, "Jalen Williams", 5).Return(hits, nil).Once()
	h.warehouse.On("PlayerGameLog", mock.Anything, int64(1631114), 10).Return(player.GameLog{PlayerID: 1631114}, nil).Once()

	require.NoError(t, h.ctrl.OpenLeader(ctx, 1631114, "Jalen Williams"))
	state := h.ctrl.Snapshot()
	require.Equal(t, navigation.TabPlayers, state.Navigation.Pending)
	require.Nil(t, state.Player.Selected)
	require.NotNil(t, state.Player.Linking)

	exec.Drain()
	state = h.ctrl.Snapshot()
	require.Equal(t, int64(1631114), state.Player.Selected.PlayerID)
	require.Equal(t, fetch.StatusOK, state.Player.Status)
	require.Equal(t, []string{"deep_link:committed", "player:committed"}, h.outcomes.all())
}

func TestController_DeepLinkMissSurfacesError(t *testing.T) {
	t.Parallel()

	h := newHarness(t, InlineExecutor{})
	ctx := context.Background()

	h.warehouse.On("SearchPlayers", mock.Anything, "Alperen Sengun", 5).
		Return([]player.SearchHit{{PlayerID: 99, FullName: "Alperen Sengun"}}, nil).Once()

	require.NoError(t, h.ctrl.OpenLeader(ctx, 1630578, "Alperen Sengun"))
	state := h.ctrl.Snapshot()
	require.Nil(t, state.Player.Selected)
	require.Equal(t, fetch.StatusError, state.Player.Status)
	require.Equal(t, int64(1630578), state.Player.Unresolved.PlayerID)
	require.Equal(t, []string{"deep_link:failed"}, h.outcomes.all())

	require.ErrorIs(t, h.ctrl.OpenLeader(ctx, 0, "Nobody"), ErrInvalidInput)
}

func TestController_LogForEarlierSelectionDiscarded(t *testing.T) {
	t.Parallel()

	exec := &queueExecutor{}
	h := newHarness(t, exec)
	ctx := context.Background()

	h.warehouse.On("PlayerGameLog", mock.Anything, int64(201), 10).Return(curryLog(10), nil).Once()
	h.warehouse.On("PlayerGameLog", mock.Anything, int64(2544), 10).Return(player.GameLog{PlayerID: 2544}, nil).Once()

	require.NoError(t, h.ctrl.SelectPlayer(ctx, player.SearchHit{PlayerID: 201, FullName: "Stephen Curry"}))
	require.NoError(t, h.ctrl.SelectPlayer(ctx, player.SearchHit{PlayerID: 2544, FullName: "LeBron James"}))

	exec.Run(1)
	exec.Run(0)

	state := h.ctrl.Snapshot()
	require.Equal(t, int64(2544), state.Player.Selected.PlayerID)
	require.Empty(t, state.Player.Games)
	require.Equal(t, []string{"player:committed", "player:stale"}, h.outcomes.all())
}

func TestController_ToggleAllGamesRefetchesWithSentinel(t *testing.T) {
	t.Parallel()

	h := newHarness(t, InlineExecutor{})
	ctx := context.Background()

	h.warehouse.On("PlayerGameLog", mock.Anything, int64(201), 10).Return(curryLog(10), nil).Once()
	h.warehouse.On("PlayerGameLog", mock.Anything, int64(201), player.AllGamesWindow).Return(curryLog(41), nil).Once()

	issued, err := h.ctrl.ToggleAllGames(ctx)
	require.NoError(t, err)
	require.False(t, issued)

	require.NoError(t, h.ctrl.SelectPlayer(ctx, player.SearchHit{PlayerID: 201, FullName: "Stephen Curry"}))
	issued, err = h.ctrl.ToggleAllGames(ctx)
	require.NoError(t, err)
	require.True(t, issued)

	state := h.ctrl.Snapshot()
	require.Equal(t, "All games", state.WindowLabel)
	require.Len(t, state.Player.Games, 41)
}

func TestController_PrimeLoadsBothSlots(t *testing.T) {
	t.Parallel()

	h := newHarness(t, InlineExecutor{})

	h.warehouse.On("Leaders", mock.Anything, ptsQuery(10)).Return(leaders.Page{Rows: leaderRows(10)}, nil).Once()
	h.warehouse.On("Standings", mock.Anything, testSeason).Return(standings.Table{}, errors.New("upstream 502")).Once()

	require.NoError(t, h.ctrl.Prime(context.Background()))

	state := h.ctrl.Snapshot()
	require.Equal(t, fetch.StatusOK, state.Leaders.Status)
	require.Equal(t, fetch.StatusError, state.Standings.Status)
	require.True(t, state.Settled)
}

func TestController_SettleWaitsForFetches(t *testing.T) {
	t.Parallel()

	h := newHarness(t, goExecutor{})
	release := make(chan struct{})

	h.warehouse.On("Leaders", mock.Anything, ptsQuery(10)).
		Run(func(mock.Arguments) { <-release }).
		Return(leaders.Page{Rows: leaderRows(3)}, nil).Once()

	require.NoError(t, h.ctrl.SelectCategory(context.Background(), leaders.CategoryPTS))

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, h.ctrl.Settle(short), context.DeadlineExceeded)

	close(release)
	ctx, cancelWait := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelWait()
	require.NoError(t, h.ctrl.Settle(ctx))
	require.Len(t, h.ctrl.Snapshot().Leaders.Rows, 3)
}

func TestController_CloseStopsTimersAndDropsResponses(t *testing.T) {
	t.Parallel()

	exec := &queueExecutor{}
	h := newHarness(t, exec)
	ctx := context.Background()

	h.warehouse.On("Leaders", mock.Anything, ptsQuery(10)).Return(leaders.Page{Rows: leaderRows(10)}, nil).Once()

	require.NoError(t, h.ctrl.SelectCategory(ctx, leaders.CategoryPTS))
	require.NoError(t, h.ctrl.TypeQuery(ctx, "tatum"))
	_, err := h.ctrl.RequestTab(ctx, navigation.TabStandings)
	require.NoError(t, err)
	require.Equal(t, 3, h.clock.Pending())

	h.ctrl.Close()
	require.Zero(t, h.clock.Pending())

	exec.Drain()
	state := h.ctrl.Snapshot()
	require.Empty(t, state.Leaders.Rows)
	require.Equal(t, fetch.StatusLoading, state.Leaders.Status)
	require.Empty(t, h.outcomes.all())

	require.ErrorIs(t, h.ctrl.SelectCategory(ctx, leaders.CategoryPTS), ErrClosed)
	require.ErrorIs(t, h.ctrl.Settle(ctx), ErrClosed)
}
