package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/nba-stats-viewer/internal/domain/fetch"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/leaders"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/navigation"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/player"
	"github.com/riskibarqy/nba-stats-viewer/internal/domain/standings"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/clock"
	"github.com/riskibarqy/nba-stats-viewer/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Slot names one independently failing piece of view state.
type Slot string

const (
	SlotLeaders   Slot = "leaders"
	SlotSearch    Slot = "search"
	SlotDeepLink  Slot = "deep_link"
	SlotPlayer    Slot = "player"
	SlotStandings Slot = "standings"
)

// Outcome is what happened to one fetch response.
type Outcome string

const (
	OutcomeCommitted Outcome = "committed"
	OutcomeFailed    Outcome = "failed"
	OutcomeStale     Outcome = "stale"
)

// CommitObserver is told about every resolved fetch. It runs without the controller lock.
type CommitObserver func(slot Slot, outcome Outcome)

type ControllerConfig struct {
	Policy              leaders.Policy
	InitialCategory     leaders.Category
	PageSize            int
	InitialTab          navigation.Tab
	TabDelays           navigation.Delays
	SearchDebounce      time.Duration
	SearchLimit         int
	DeepLinkSearchLimit int
	PlayerWindow        int
	Observer            CommitObserver
}

func DefaultControllerConfig(season string) ControllerConfig {
	return ControllerConfig{
		Policy:              leaders.DefaultPolicy(season),
		InitialCategory:     leaders.CategoryPTS,
		PageSize:            leaders.DefaultPageSize,
		InitialTab:          navigation.TabLeaders,
		TabDelays:           navigation.Delays{Swap: 150 * time.Millisecond, Unlock: 450 * time.Millisecond},
		SearchDebounce:      250 * time.Millisecond,
		SearchLimit:         10,
		DeepLinkSearchLimit: 5,
		PlayerWindow:        player.DefaultWindow,
	}
}

func (cfg ControllerConfig) normalized() ControllerConfig {
	defaults := DefaultControllerConfig(cfg.Policy.Season)
	if cfg.PageSize < 1 {
		cfg.PageSize = defaults.PageSize
	}
	if !cfg.InitialCategory.Valid() {
		cfg.InitialCategory = defaults.InitialCategory
	}
	if !cfg.InitialTab.Valid() {
		cfg.InitialTab = defaults.InitialTab
	}
	if !cfg.TabDelays.Valid() {
		cfg.TabDelays = defaults.TabDelays
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = defaults.SearchDebounce
	}
	if cfg.SearchLimit < 1 {
		cfg.SearchLimit = defaults.SearchLimit
	}
	if cfg.DeepLinkSearchLimit < 1 {
		cfg.DeepLinkSearchLimit = defaults.DeepLinkSearchLimit
	}
	if cfg.PlayerWindow < 1 {
		cfg.PlayerWindow = defaults.PlayerWindow
	}
	return cfg
}

// effect is one warehouse fetch issued by a transition.
type effect func(ctx context.Context)

// result is what a response applied to state.
type result struct {
	committed bool
	err       error
	follow    []effect
}

// Controller owns the view state of one browser session. Transitions run under mu as
// pure reducers; fetches are dispatched after mu is released and their responses are
// committed only when they still match the slot's latest request.
type Controller struct {
	warehouse Warehouse
	exec      Executor
	clock     clock.Clock
	logger    *logging.Logger
	cfg       ControllerConfig

	baseCtx context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	closed   bool
	version  uint64
	changed  chan struct{}
	inflight int

	nav         navigation.State
	navTimers   []clock.Timer
	board       leaders.Board
	search      player.Search
	debounce    clock.Timer
	debounceGen uint64
	detail      player.Detail
	standings   standings.Board
}

func NewController(warehouse Warehouse, exec Executor, clk clock.Clock, logger *logging.Logger, cfg ControllerConfig) *Controller {
	if exec == nil {
		exec = InlineExecutor{}
	}
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.normalized()

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		warehouse: warehouse,
		exec:      exec,
		clock:     clk,
		logger:    logger,
		cfg:       cfg,
		baseCtx:   ctx,
		cancel:    cancel,
		changed:   make(chan struct{}),
		nav:       navigation.NewState(cfg.InitialTab),
		board:     leaders.NewBoard(cfg.InitialCategory, cfg.PageSize),
		search:    player.NewSearch(),
		detail:    player.NewDetail(cfg.PlayerWindow),
		standings: standings.NewBoard(cfg.Policy.Season),
	}
}

// Prime loads the initial leaderboard and the standings snapshot concurrently and
// returns once both responses are applied.
func (c *Controller) Prime(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.Controller.Prime")
	defer span.End()

	effects, err := c.transition(func() []effect {
		var (
			lt leaders.Ticket
			st standings.Ticket
		)
		c.board, lt = c.board.Retry()
		c.standings, st = c.standings.Load()
		return []effect{c.fetchLeaders(lt), c.fetchStandings(st)}
	})
	if err != nil {
		return err
	}

	var wg conc.WaitGroup
	for _, e := range effects {
		e := e
		wg.Go(func() { c.run(ctx, e) })
	}
	wg.Wait()
	return nil
}

// RequestTab starts an animated tab change. It reports false when the request is a no-op.
func (c *Controller) RequestTab(ctx context.Context, tab navigation.Tab) (bool, error) {
	if !tab.Valid() {
		return false, fmt.Errorf("%w: unknown tab %q", ErrInvalidInput, tab)
	}

	started := false
	err := c.update(ctx, func() []effect {
		started = c.requestTabLocked(tab)
		return nil
	})
	return started, err
}

// SelectCategory resets pagination for c and fetches its first page.
func (c *Controller) SelectCategory(ctx context.Context, category leaders.Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}

	return c.update(ctx, func() []effect {
		var ticket leaders.Ticket
		c.board, ticket = c.board.SelectCategory(category)
		return []effect{c.fetchLeaders(ticket)}
	})
}

// LoadMore grows the leaderboard by one page. It reports false while disabled.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	issued := false
	err := c.update(ctx, func() []effect {
		var ticket leaders.Ticket
		c.board, ticket, issued = c.board.LoadMore()
		if !issued {
			return nil
		}
		return []effect{c.fetchLeaders(ticket)}
	})
	return issued, err
}

func (c *Controller) RetryLeaders(ctx context.Context) error {
	return c.update(ctx, func() []effect {
		var ticket leaders.Ticket
		c.board, ticket = c.board.Retry()
		return []effect{c.fetchLeaders(ticket)}
	})
}

// OpenLeader deep-links a leaderboard row into the player view. The player is only
// selected once a name search returns the exact id.
func (c *Controller) OpenLeader(ctx context.Context, playerID int64, name string) error {
	name = strings.TrimSpace(name)
	if playerID <= 0 || name == "" {
		return fmt.Errorf("%w: deep link needs a player id and name", ErrInvalidInput)
	}

	return c.update(ctx, func() []effect {
		c.requestTabLocked(navigation.TabPlayers)
		c.cancelDebounceLocked()
		c.search = c.search.Clear()

		var ticket player.LinkTicket
		c.detail, ticket = c.detail.BeginLink(playerID, name)
		return []effect{c.resolveLink(ticket)}
	})
}

// TypeQuery records search input and re-arms the debounce timer.
func (c *Controller) TypeQuery(ctx context.Context, raw string) error {
	return c.update(ctx, func() []effect {
		var arm bool
		c.search, arm = c.search.Type(raw)
		c.cancelDebounceLocked()
		if arm {
			gen := c.debounceGen
			c.debounce = c.clock.AfterFunc(c.cfg.SearchDebounce, func() { c.fireSearch(gen) })
		}
		return nil
	})
}

// SelectPlayer commits a search hit and fetches its default game window.
func (c *Controller) SelectPlayer(ctx context.Context, hit player.SearchHit) error {
	if hit.PlayerID <= 0 {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	return c.update(ctx, func() []effect {
		c.cancelDebounceLocked()
		c.search = c.search.Clear()

		var ticket player.LogTicket
		c.detail, ticket = c.detail.Select(hit)
		return []effect{c.fetchGameLog(ticket)}
	})
}

// ToggleAllGames flips between the default window and the full season.
func (c *Controller) ToggleAllGames(ctx context.Context) (bool, error) {
	issued := false
	err := c.update(ctx, func() []effect {
		var ticket player.LogTicket
		c.detail, ticket, issued = c.detail.ToggleAll()
		if !issued {
			return nil
		}
		return []effect{c.fetchGameLog(ticket)}
	})
	return issued, err
}

func (c *Controller) RetryPlayer(ctx context.Context) (bool, error) {
	issued := false
	err := c.update(ctx, func() []effect {
		var ticket player.LogTicket
		c.detail, ticket, issued = c.detail.Retry()
		if !issued {
			return nil
		}
		return []effect{c.fetchGameLog(ticket)}
	})
	return issued, err
}

func (c *Controller) ReloadStandings(ctx context.Context) error {
	return c.update(ctx, func() []effect {
		var ticket standings.Ticket
		c.standings, ticket = c.standings.Load()
		return []effect{c.fetchStandings(ticket)}
	})
}

// Snapshot copies the current view state.
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ViewState{
		Version:     c.version,
		Season:      c.cfg.Policy.Season,
		Navigation:  c.nav,
		Leaders:     c.board,
		CanLoadMore: c.board.CanLoadMore() && !c.closed,
		Search:      c.search,
		Player:      c.detail,
		WindowLabel: c.detail.WindowLabel(),
		Standings:   c.standings,
		Settled:     c.idleLocked(),
	}
}

// Settle blocks until no fetch is in flight, no debounce is armed and no tab
// transition is running, or ctx ends.
func (c *Controller) Settle(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrClosed
		}
		if c.idleLocked() {
			c.mu.Unlock()
			return nil
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// Close stops every timer and discards responses that arrive afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancelDebounceLocked()
	for _, t := range c.navTimers {
		t.Stop()
	}
	c.navTimers = nil
	c.cancel()
	c.touchLocked()
}

func (c *Controller) requestTabLocked(tab navigation.Tab) bool {
	var started bool
	c.nav, started = c.nav.Request(tab)
	if !started {
		return false
	}

	epoch := c.nav.Epoch
	c.navTimers = []clock.Timer{
		c.clock.AfterFunc(c.cfg.TabDelays.Swap, func() { c.swapTab(epoch) }),
		c.clock.AfterFunc(c.cfg.TabDelays.Unlock, func() { c.unlockTab(epoch) }),
	}
	return true
}

// swapTab shows the pending view and pulls its data when it was never loaded or last failed.
func (c *Controller) swapTab(epoch uint64) {
	_ = c.update(c.baseCtx, func() []effect {
		c.nav = c.nav.Swap(epoch)
		if c.nav.Epoch != epoch {
			return nil
		}

		switch c.nav.Active {
		case navigation.TabLeaders:
			if c.board.Status == fetch.StatusIdle || c.board.Status == fetch.StatusError {
				var ticket leaders.Ticket
				c.board, ticket = c.board.Retry()
				return []effect{c.fetchLeaders(ticket)}
			}
		case navigation.TabStandings:
			if c.standings.Status == fetch.StatusIdle || c.standings.Status == fetch.StatusError {
				var ticket standings.Ticket
				c.standings, ticket = c.standings.Load()
				return []effect{c.fetchStandings(ticket)}
			}
		}
		return nil
	})
}

func (c *Controller) unlockTab(epoch uint64) {
	_ = c.update(c.baseCtx, func() []effect {
		c.nav = c.nav.Unlock(epoch)
		if !c.nav.Transitioning() {
			c.navTimers = nil
		}
		return nil
	})
}

func (c *Controller) fireSearch(gen uint64) {
	_ = c.update(c.baseCtx, func() []effect {
		if gen != c.debounceGen || c.debounce == nil {
			return nil
		}
		c.debounce = nil

		var (
			ticket player.SearchTicket
			ok     bool
		)
		c.search, ticket, ok = c.search.Issue()
		if !ok {
			return nil
		}
		return []effect{c.fetchSearch(ticket)}
	})
}

func (c *Controller) cancelDebounceLocked() {
	c.debounceGen++
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

func (c *Controller) fetchLeaders(ticket leaders.Ticket) effect {
	query := c.cfg.Policy.Query(ticket.Category, ticket.Limit)
	return func(ctx context.Context) {
		ctx, span := startSlotSpan(ctx, SlotLeaders,
			attribute.String("leaders.category", string(ticket.Category)),
			attribute.Int("leaders.limit", ticket.Limit),
		)
		defer span.End()

		page, err := c.warehouse.Leaders(ctx, query)
		c.commit(ctx, span, SlotLeaders, func() result {
			var ok bool
			c.board, ok = c.board.Resolve(ticket, page.Rows, err)
			return result{committed: ok, err: err}
		})
	}
}

func (c *Controller) fetchSearch(ticket player.SearchTicket) effect {
	limit := c.cfg.SearchLimit
	return func(ctx context.Context) {
		ctx, span := startSlotSpan(ctx, SlotSearch, attribute.Int("search.query_len", len(ticket.Query)))
		defer span.End()

		hits, err := c.warehouse.SearchPlayers(ctx, ticket.Query, limit)
		c.commit(ctx, span, SlotSearch, func() result {
			var ok bool
			c.search, ok = c.search.Resolve(ticket, hits, err)
			return result{committed: ok, err: err}
		})
	}
}

func (c *Controller) resolveLink(ticket player.LinkTicket) effect {
	limit := c.cfg.DeepLinkSearchLimit
	return func(ctx context.Context) {
		ctx, span := startSlotSpan(ctx, SlotDeepLink, attribute.Int64("player.id", ticket.PlayerID))
		defer span.End()

		hits, err := c.warehouse.SearchPlayers(ctx, ticket.Name, limit)
		c.commit(ctx, span, SlotDeepLink, func() result {
			if !c.detail.Awaiting(ticket) {
				return result{}
			}

			var (
				logTicket player.LogTicket
				matched   bool
			)
			c.detail, logTicket, matched = c.detail.ResolveLink(ticket, hits, err)
			switch {
			case err != nil:
				return result{committed: true, err: err}
			case !matched:
				return result{committed: true, err: fmt.Errorf("%w: id=%d name=%q", ErrPlayerNotIndexed, ticket.PlayerID, ticket.Name)}
			default:
				return result{committed: true, follow: []effect{c.fetchGameLog(logTicket)}}
			}
		})
	}
}

func (c *Controller) fetchGameLog(ticket player.LogTicket) effect {
	return func(ctx context.Context) {
		ctx, span := startSlotSpan(ctx, SlotPlayer,
			attribute.Int64("player.id", ticket.PlayerID),
			attribute.Int("player.window", ticket.Window),
		)
		defer span.End()

		log, err := c.warehouse.PlayerGameLog(ctx, ticket.PlayerID, ticket.Window)
		c.commit(ctx, span, SlotPlayer, func() result {
			var ok bool
			c.detail, ok = c.detail.ResolveLog(ticket, log, err)
			return result{committed: ok, err: err}
		})
	}
}

func (c *Controller) fetchStandings(ticket standings.Ticket) effect {
	return func(ctx context.Context) {
		ctx, span := startSlotSpan(ctx, SlotStandings, attribute.String("standings.season", ticket.Season))
		defer span.End()

		table, err := c.warehouse.Standings(ctx, ticket.Season)
		c.commit(ctx, span, SlotStandings, func() result {
			var ok bool
			c.standings, ok = c.standings.Resolve(ticket, table, err)
			return result{committed: ok, err: err}
		})
	}
}

// transition applies fn under the lock and accounts for the fetches it issues.
func (c *Controller) transition(fn func() []effect) ([]effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	effects := fn()
	c.inflight += len(effects)
	c.touchLocked()
	return effects, nil
}

func (c *Controller) update(ctx context.Context, fn func() []effect) error {
	effects, err := c.transition(fn)
	if err != nil {
		return err
	}
	c.dispatch(ctx, effects)
	return nil
}

// commit applies one response. Follow-up fetches are counted before the parent
// fetch is released so Settle never observes a gap.
func (c *Controller) commit(ctx context.Context, span trace.Span, slot Slot, apply func() result) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	res := apply()
	c.inflight += len(res.follow)
	c.touchLocked()
	c.mu.Unlock()

	outcome := OutcomeCommitted
	switch {
	case !res.committed:
		outcome = OutcomeStale
		c.logger.DebugContext(ctx, "discarded stale warehouse response", "slot", slot)
	case res.err != nil:
		outcome = OutcomeFailed
		c.logger.WarnContext(ctx, "view slot fetch failed", "slot", slot, "error", res.err)
	}
	recordOutcome(span, outcome, res.err)
	if c.cfg.Observer != nil {
		c.cfg.Observer(slot, outcome)
	}

	c.dispatch(ctx, res.follow)
}

func (c *Controller) dispatch(ctx context.Context, effects []effect) {
	for _, e := range effects {
		e := e
		task := func() { c.run(ctx, e) }
		if err := c.exec.Submit(task); err != nil {
			c.logger.WarnContext(ctx, "dispatch pool rejected fetch, running detached", "error", err)
			go task()
		}
	}
}

// run executes e under the controller lifetime, keeping the caller's span as parent.
func (c *Controller) run(ctx context.Context, e effect) {
	defer c.finish()
	e(trace.ContextWithSpan(c.baseCtx, trace.SpanFromContext(ctx)))
}

func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight > 0 {
		c.inflight--
	}
	c.touchLocked()
}

func (c *Controller) idleLocked() bool {
	return c.inflight == 0 && c.debounce == nil && !c.nav.Transitioning()
}

// touchLocked bumps the version and wakes Settle waiters.
func (c *Controller) touchLocked() {
	c.version++
	close(c.changed)
	c.changed = make(chan struct{})
}
