package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trending"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/debounce"
)

const (
	DefaultFilterDebounce = 300 * time.Millisecond
	loadPlayersFailedMsg  = "Failed to load players"
	sidebarSize           = 5
)

type TrendingPlayersConfig struct {
	FilterDebounce time.Duration
}

// TrendingView is a render snapshot of the trending page.
type TrendingView struct {
	State      trending.ViewState
	Query      string
	SearchText string
	MinText    string
	MaxText    string
	Page       *player.Page
	Pager      trending.Pager
	Loading    bool
	Error      string
	Risers     []player.Row
	Fallers    []player.Row
}

// TrendingPlayers drives the trending players page. Every state change derives a query string and
// a new fetch is started only when that string differs from the last one requested.
type TrendingPlayers struct {
	mu       sync.Mutex
	ctx      context.Context
	players  player.Directory
	runtime  Runtime
	onChange func()

	state      trending.ViewState
	searchText string
	minText    string
	maxText    string
	debouncer  *debounce.Debouncer[string]
	lastQuery  string
	page       *player.Page
	loading    bool
	errMsg     string
	risers     []player.Row
	fallers    []player.Row
	flight     inflight
	sidebar    inflight
	mounted    bool
	closed     bool
}

func NewTrendingPlayers(ctx context.Context, players player.Directory, initial trending.ViewState, cfg TrendingPlayersConfig, runtime Runtime, onChange func()) *TrendingPlayers {
	if cfg.FilterDebounce <= 0 {
		cfg.FilterDebounce = DefaultFilterDebounce
	}
	if onChange == nil {
		onChange = func() {}
	}
	if initial.PageSize == 0 {
		initial = trending.DefaultViewState()
	}

	t := &TrendingPlayers{
		ctx:        ctx,
		players:    players,
		runtime:    runtime.normalize(),
		onChange:   onChange,
		state:      initial,
		searchText: initial.Search,
		minText:    trending.FormatBound(initial.MinVal),
		maxText:    trending.FormatBound(initial.MaxVal),
	}
	t.debouncer = debounce.New(cfg.FilterDebounce, t.applySearch, runtime.debounceOptions()...)
	t.debouncer.Reset(initial.Search)
	return t
}

// Mount loads the first page and the sidebar. Later calls do nothing.
func (t *TrendingPlayers) Mount() {
	t.mu.Lock()
	if t.mounted || t.closed {
		t.mu.Unlock()
		return
	}
	t.mounted = true
	t.mu.Unlock()

	t.refresh(true)
	t.loadSidebar()
}

// SetSearch records the filter text; the view state follows after the filter debounce.
func (t *TrendingPlayers) SetSearch(raw string) {
	t.mu.Lock()
	t.searchText = raw
	t.debouncer.Set(raw)
	t.mu.Unlock()

	t.onChange()
}

// applySearch always goes back to page 1, even when the text was edited back to the current filter.
func (t *TrendingPlayers) applySearch(q string) {
	t.update(func(s trending.ViewState) trending.ViewState { return s.WithSearch(q) })
}

func (t *TrendingPlayers) TogglePosition(pos string) {
	t.update(func(s trending.ViewState) trending.ViewState { return s.TogglePosition(pos) })
}

// SetMinVal parses the min input. Blank clears the bound; unparsable text is kept for display but
// leaves the bound alone.
func (t *TrendingPlayers) SetMinVal(raw string) {
	t.mu.Lock()
	t.minText = raw
	t.mu.Unlock()

	v, ok := trending.ParseBound(raw)
	if !ok {
		t.onChange()
		return
	}
	t.update(func(s trending.ViewState) trending.ViewState { return s.WithMinVal(v) })
}

func (t *TrendingPlayers) SetMaxVal(raw string) {
	t.mu.Lock()
	t.maxText = raw
	t.mu.Unlock()

	v, ok := trending.ParseBound(raw)
	if !ok {
		t.onChange()
		return
	}
	t.update(func(s trending.ViewState) trending.ViewState { return s.WithMaxVal(v) })
}

func (t *TrendingPlayers) SetSortBy(key trending.SortKey) {
	t.update(func(s trending.ViewState) trending.ViewState { return s.WithSortBy(key) })
}

func (t *TrendingPlayers) ToggleOrder() {
	t.update(func(s trending.ViewState) trending.ViewState { return s.ToggleOrder() })
}

func (t *TrendingPlayers) GoToPage(page int) {
	t.updateWithLast(func(s trending.ViewState, last int) trending.ViewState { return s.WithPage(page, last) })
}

func (t *TrendingPlayers) FirstPage() {
	t.update(func(s trending.ViewState) trending.ViewState { return s.FirstPage() })
}

func (t *TrendingPlayers) PrevPage() {
	t.update(func(s trending.ViewState) trending.ViewState { return s.PrevPage() })
}

func (t *TrendingPlayers) NextPage() {
	t.updateWithLast(func(s trending.ViewState, last int) trending.ViewState { return s.NextPage(last) })
}

func (t *TrendingPlayers) LastPage() {
	t.updateWithLast(func(s trending.ViewState, last int) trending.ViewState { return s.LastPage(last) })
}

func (t *TrendingPlayers) SetPageSize(size int) {
	t.update(func(s trending.ViewState) trending.ViewState { return s.WithPageSize(size) })
}

// Reset restores every filter, the sort and the pagination to their defaults.
func (t *TrendingPlayers) Reset() {
	t.mu.Lock()
	t.searchText = ""
	t.minText = ""
	t.maxText = ""
	t.debouncer.Reset("")
	t.mu.Unlock()

	t.update(func(s trending.ViewState) trending.ViewState { return s.Reset() })
}

func (t *TrendingPlayers) View() TrendingView {
	t.mu.Lock()
	defer t.mu.Unlock()

	view := TrendingView{
		State:      t.state,
		Query:      t.state.Query(),
		SearchText: t.searchText,
		MinText:    t.minText,
		MaxText:    t.maxText,
		Pager:      trending.NewPager(t.state, t.page),
		Loading:    t.loading,
		Error:      t.errMsg,
		Risers:     append([]player.Row(nil), t.risers...),
		Fallers:    append([]player.Row(nil), t.fallers...),
	}
	if t.page != nil {
		p := *t.page
		p.Items = append([]player.Row(nil), t.page.Items...)
		view.Page = &p
	}
	return view
}

// Close unmounts the page. Pending debounces and in-flight requests are cancelled and late results
// are dropped.
func (t *TrendingPlayers) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.debouncer.Cancel()
	t.flight.stop()
	t.sidebar.stop()
}

func (t *TrendingPlayers) update(reduce func(trending.ViewState) trending.ViewState) {
	t.updateWithLast(func(s trending.ViewState, _ int) trending.ViewState { return reduce(s) })
}

func (t *TrendingPlayers) updateWithLast(reduce func(trending.ViewState, int) trending.ViewState) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	last := 1
	if t.page != nil {
		last = t.page.LastPage()
	}
	t.state = reduce(t.state, last)
	mounted := t.mounted
	t.mu.Unlock()

	if mounted {
		t.refresh(false)
		return
	}
	t.onChange()
}

// refresh fetches the page for the current state when its query differs from the last request.
func (t *TrendingPlayers) refresh(force bool) {
	ctx, span := startControllerSpan(t.ctx, "TrendingPlayers", "refresh", attribute.Bool("trending.force", force))
	defer span.End()

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	query := t.state.Query()
	if !force && query == t.lastQuery {
		t.mu.Unlock()
		t.onChange()
		return
	}
	t.lastQuery = query
	t.loading = true
	t.errMsg = ""
	reqCtx, gen := t.flight.begin(ctx)
	t.mu.Unlock()
	t.onChange()

	err := t.runtime.Executor.Submit(func() {
		page, err := t.players.ListTrending(reqCtx, query)

		t.mu.Lock()
		if !t.flight.current(gen) {
			t.mu.Unlock()
			t.runtime.recordStale("trending.players")
			return
		}
		t.flight.finish(gen)
		t.loading = false
		if err != nil {
			t.runtime.Logger.WarnContext(reqCtx, "load trending players failed", "query", query, "error", err)
			t.errMsg = ErrorDetail(err, loadPlayersFailedMsg)
			t.page = nil
		} else {
			t.page = &page
		}
		t.mu.Unlock()

		t.onChange()
	})
	if err != nil {
		t.mu.Lock()
		t.flight.finish(gen)
		t.loading = false
		t.errMsg = loadPlayersFailedMsg
		t.page = nil
		t.mu.Unlock()
		t.runtime.Logger.WarnContext(ctx, "submit trending fetch", "error", err)
		t.onChange()
	}
}

// loadSidebar fetches the top risers and fallers side by side. Any failure leaves both lists empty.
func (t *TrendingPlayers) loadSidebar() {
	t.mu.Lock()
	reqCtx, gen := t.sidebar.begin(t.ctx)
	t.mu.Unlock()

	err := t.runtime.Executor.Submit(func() {
		var risers, fallers []player.Row

		p := pool.New().WithErrors().WithContext(reqCtx).WithCancelOnError()
		p.Go(func(ctx context.Context) error {
			page, err := t.players.ListTrending(ctx, sidebarQuery(trending.SortAdds24h))
			risers = page.Items
			return err
		})
		p.Go(func(ctx context.Context) error {
			page, err := t.players.ListTrending(ctx, sidebarQuery(trending.SortDrops24h))
			fallers = page.Items
			return err
		})
		err := p.Wait()

		t.mu.Lock()
		if !t.sidebar.current(gen) {
			t.mu.Unlock()
			t.runtime.recordStale("trending.sidebar")
			return
		}
		t.sidebar.finish(gen)
		if err != nil {
			t.runtime.Logger.DebugContext(reqCtx, "load trending sidebar failed", "error", err)
			risers, fallers = nil, nil
		}
		t.risers = risers
		t.fallers = fallers
		t.mu.Unlock()

		t.onChange()
	})
	if err != nil {
		t.mu.Lock()
		t.sidebar.finish(gen)
		t.mu.Unlock()
		t.runtime.Logger.DebugContext(reqCtx, "submit trending sidebar", "error", err)
	}
}

func sidebarQuery(sortBy trending.SortKey) string {
	return trending.MoversQuery(sortBy, sidebarSize)
}
