package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
)

const simulationFailedMessage = "Simulation failed"

type TradeCalculatorConfig struct {
	SearchDebounce time.Duration
}

// TradeSideView is the render snapshot of one side.
type TradeSideView struct {
	Side     trade.Side
	Query    string
	Results  []player.Lite
	Selected []player.Lite
	QuickAdd SearchSelectView
}

type TradeView struct {
	A           TradeSideView
	B           TradeSideView
	Result      *trade.SimulationResult
	Error       string
	Simulating  bool
	CanSimulate bool
}

type tradeSide struct {
	query   string
	results []player.Lite
	flight  inflight
}

// TradeCalculator holds one trade calculator page: two disjoint pick lists, a search per side and
// the last simulation outcome.
type TradeCalculator struct {
	mu        sync.Mutex
	ctx       context.Context
	players   player.Directory
	simulator trade.Simulator
	runtime   Runtime
	onChange  func()

	selection  trade.Selection
	sides      map[trade.Side]*tradeSide
	quickAdd   map[trade.Side]*SearchSelect
	result     *trade.SimulationResult
	errMsg     string
	simulating bool
	simFlight  inflight
	closed     bool
}

func NewTradeCalculator(ctx context.Context, players player.Directory, simulator trade.Simulator, cfg TradeCalculatorConfig, runtime Runtime, onChange func()) *TradeCalculator {
	if onChange == nil {
		onChange = func() {}
	}

	c := &TradeCalculator{
		ctx:       ctx,
		players:   players,
		simulator: simulator,
		runtime:   runtime.normalize(),
		onChange:  onChange,
		sides: map[trade.Side]*tradeSide{
			trade.SideA: {},
			trade.SideB: {},
		},
		quickAdd: make(map[trade.Side]*SearchSelect, 2),
	}

	for _, side := range []trade.Side{trade.SideA, trade.SideB} {
		side := side
		c.quickAdd[side] = NewSearchSelect(ctx, players, SearchSelectConfig{
			Label:    fmt.Sprintf("Quick add to Side %s", side),
			Debounce: cfg.SearchDebounce,
			OnAdd:    func(p player.Lite) { c.Add(side, p) },
		}, runtime, onChange)
	}

	return c
}

// QuickAdd returns the search-select widget feeding side.
func (c *TradeCalculator) QuickAdd(side trade.Side) *SearchSelect {
	return c.quickAdd[side]
}

func (c *TradeCalculator) SetQuery(side trade.Side, q string) {
	c.mu.Lock()
	c.sides[side].query = q
	c.mu.Unlock()

	c.onChange()
}

// Search fetches matches for side's current query. A blank query clears the list without a request;
// failures also leave it empty.
func (c *TradeCalculator) Search(side trade.Side) {
	ctx, span := startControllerSpan(c.ctx, "TradeCalculator", "Search", attribute.String("trade.side", string(side)))
	defer span.End()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	s := c.sides[side]
	q := strings.TrimSpace(s.query)
	if q == "" {
		s.flight.stop()
		s.results = nil
		c.mu.Unlock()
		c.onChange()
		return
	}
	reqCtx, gen := s.flight.begin(ctx)
	c.mu.Unlock()

	err := c.runtime.Executor.Submit(func() {
		items, err := c.players.Search(reqCtx, q)

		c.mu.Lock()
		if !s.flight.current(gen) {
			c.mu.Unlock()
			c.runtime.recordStale("trade.search")
			return
		}
		s.flight.finish(gen)
		if err != nil {
			c.runtime.Logger.DebugContext(reqCtx, "trade search failed", "side", side, "error", err)
			items = nil
		}
		s.results = items
		c.mu.Unlock()

		c.onChange()
	})
	if err != nil {
		c.mu.Lock()
		s.flight.finish(gen)
		s.results = nil
		c.mu.Unlock()
		c.runtime.Logger.WarnContext(ctx, "submit trade search", "error", err)
		c.onChange()
	}
}

// Add puts p on side unless it is already picked on either side. A successful add clears that
// side's search and any simulation result.
func (c *TradeCalculator) Add(side trade.Side, p player.Lite) bool {
	c.mu.Lock()
	next, ok := c.selection.Add(side, p)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.selection = next
	s := c.sides[side]
	s.flight.stop()
	s.results = nil
	s.query = ""
	c.clearResultLocked()
	c.mu.Unlock()

	c.onChange()
	return true
}

// AddFromResults adds the search result with the given id.
func (c *TradeCalculator) AddFromResults(side trade.Side, id string) bool {
	c.mu.Lock()
	var picked player.Lite
	found := false
	for _, p := range c.sides[side].results {
		if p.ID == id {
			picked, found = p, true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return false
	}
	return c.Add(side, picked)
}

// Remove drops id from side. Removing an absent id changes nothing, including the result.
func (c *TradeCalculator) Remove(side trade.Side, id string) bool {
	c.mu.Lock()
	next, ok := c.selection.Remove(side, id)
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.selection = next
	c.clearResultLocked()
	c.mu.Unlock()

	c.onChange()
	return true
}

// Simulate posts both sides' ids. It returns ErrNothingToSimulate when both sides are empty;
// backend failures are surfaced through the view's Error.
func (c *TradeCalculator) Simulate() error {
	ctx, span := startControllerSpan(c.ctx, "TradeCalculator", "Simulate")
	defer span.End()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("%w: page closed", ErrInvalidInput)
	}
	if c.selection.Empty() {
		c.mu.Unlock()
		return ErrNothingToSimulate
	}
	req := c.selection.Request()
	c.errMsg = ""
	c.result = nil
	c.simulating = true
	reqCtx, gen := c.simFlight.begin(ctx)
	c.mu.Unlock()
	c.onChange()

	err := c.runtime.Executor.Submit(func() {
		res, err := c.simulator.Simulate(reqCtx, req)

		c.mu.Lock()
		if !c.simFlight.current(gen) {
			c.mu.Unlock()
			c.runtime.recordStale("trade.simulate")
			return
		}
		c.simFlight.finish(gen)
		c.simulating = false
		if err != nil {
			c.runtime.Logger.WarnContext(reqCtx, "trade simulation failed", "error", err)
			c.errMsg = ErrorDetail(err, simulationFailedMessage)
			c.result = nil
		} else {
			c.result = &res
			c.errMsg = ""
		}
		c.mu.Unlock()

		c.onChange()
	})
	if err != nil {
		c.mu.Lock()
		c.simFlight.finish(gen)
		c.simulating = false
		c.errMsg = simulationFailedMessage
		c.mu.Unlock()
		c.onChange()
		return fmt.Errorf("%w: submit simulation: %v", ErrDependencyUnavailable, err)
	}

	return nil
}

func (c *TradeCalculator) View() TradeView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := TradeView{
		A:           c.sideViewLocked(trade.SideA),
		B:           c.sideViewLocked(trade.SideB),
		Error:       c.errMsg,
		Simulating:  c.simulating,
		CanSimulate: !c.selection.Empty() && !c.simulating,
	}
	if c.result != nil {
		res := *c.result
		view.Result = &res
	}
	return view
}

// Close unmounts the page: pending debounces and requests are cancelled and their results dropped.
func (c *TradeCalculator) Close() {
	for _, ss := range c.quickAdd {
		ss.Close()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, s := range c.sides {
		s.flight.stop()
	}
	c.simFlight.stop()
}

func (c *TradeCalculator) sideViewLocked(side trade.Side) TradeSideView {
	s := c.sides[side]
	return TradeSideView{
		Side:     side,
		Query:    s.query,
		Results:  append([]player.Lite(nil), s.results...),
		Selected: c.selection.Players(side),
		QuickAdd: c.quickAdd[side].View(),
	}
}

func (c *TradeCalculator) clearResultLocked() {
	c.simFlight.stop()
	c.simulating = false
	c.result = nil
}
