package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/debounce"
)

const (
	DefaultSearchDebounce = 250 * time.Millisecond
	minSearchLength       = 2
)

type SearchSelectConfig struct {
	Label    string
	Debounce time.Duration
	// OnAdd receives the picked player, once per selection.
	OnAdd func(player.Lite)
}

// SearchSelectView is a render snapshot of the widget.
type SearchSelectView struct {
	Label           string
	Query           string
	Results         []player.Lite
	DropdownVisible bool
}

// SearchSelect is a debounced type-ahead that hands the chosen player to OnAdd and clears itself.
type SearchSelect struct {
	mu       sync.Mutex
	ctx      context.Context
	players  player.Directory
	runtime  Runtime
	label    string
	onAdd    func(player.Lite)
	onChange func()

	query     string
	results   []player.Lite
	open      bool
	debouncer *debounce.Debouncer[string]
	flight    inflight
	closed    bool
}

func NewSearchSelect(ctx context.Context, players player.Directory, cfg SearchSelectConfig, runtime Runtime, onChange func()) *SearchSelect {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultSearchDebounce
	}
	if cfg.OnAdd == nil {
		cfg.OnAdd = func(player.Lite) {}
	}
	if onChange == nil {
		onChange = func() {}
	}

	s := &SearchSelect{
		ctx:      ctx,
		players:  players,
		runtime:  runtime.normalize(),
		label:    cfg.Label,
		onAdd:    cfg.OnAdd,
		onChange: onChange,
	}
	s.debouncer = debounce.New(cfg.Debounce, s.search, runtime.debounceOptions()...)
	return s
}

// SetQuery records typed text, opens the dropdown and schedules a debounced search.
func (s *SearchSelect) SetQuery(q string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.query = q
	s.open = true
	s.debouncer.Set(q)
	s.mu.Unlock()

	s.onChange()
}

func (s *SearchSelect) Focus() {
	s.setOpen(true)
}

func (s *SearchSelect) ClickOutside() {
	s.setOpen(false)
}

func (s *SearchSelect) setOpen(open bool) {
	s.mu.Lock()
	changed := s.open != open
	s.open = open
	s.mu.Unlock()

	if changed {
		s.onChange()
	}
}

// Select hands the result with the given id to OnAdd and clears the widget. Unknown ids are ignored.
func (s *SearchSelect) Select(id string) bool {
	s.mu.Lock()
	var picked player.Lite
	found := false
	for _, p := range s.results {
		if p.ID == id {
			picked, found = p, true
			break
		}
	}
	if !found || s.closed {
		s.mu.Unlock()
		return false
	}

	s.query = ""
	s.results = nil
	s.open = false
	s.debouncer.Reset("")
	s.flight.stop()
	s.mu.Unlock()

	s.onAdd(picked)
	s.onChange()
	return true
}

func (s *SearchSelect) View() SearchSelectView {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := append([]player.Lite(nil), s.results...)
	return SearchSelectView{
		Label:           s.label,
		Query:           s.query,
		Results:         results,
		DropdownVisible: s.open && len(results) > 0,
	}
}

// Close cancels the pending debounce and any in-flight search.
func (s *SearchSelect) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.debouncer.Cancel()
	s.flight.stop()
}

func (s *SearchSelect) search(q string) {
	ctx, span := startControllerSpan(s.ctx, "SearchSelect", "search", attribute.Int("search.query_length", len(q)))
	defer span.End()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if len(strings.TrimSpace(q)) < minSearchLength {
		s.flight.stop()
		hadResults := len(s.results) > 0
		s.results = nil
		s.mu.Unlock()
		if hadResults {
			s.onChange()
		}
		return
	}
	reqCtx, gen := s.flight.begin(ctx)
	s.mu.Unlock()

	err := s.runtime.Executor.Submit(func() {
		items, err := s.players.Search(reqCtx, q)

		s.mu.Lock()
		if !s.flight.current(gen) {
			s.mu.Unlock()
			s.runtime.recordStale("search_select")
			return
		}
		s.flight.finish(gen)
		if err != nil {
			s.runtime.Logger.DebugContext(reqCtx, "player search failed", "label", s.label, "error", err)
			items = nil
		}
		s.results = items
		s.mu.Unlock()

		s.onChange()
	})
	if err != nil {
		s.mu.Lock()
		s.flight.finish(gen)
		s.results = nil
		s.mu.Unlock()
		s.runtime.Logger.WarnContext(ctx, "submit player search", "error", err)
		s.onChange()
	}
}
