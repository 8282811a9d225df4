package web

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trending"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

// Trade calculator events. Target carries the side ("a" or "b").
const (
	evTradeQuery     = "query"
	evTradeSearch    = "search"
	evTradeAdd       = "add"
	evTradeRemove    = "remove"
	evTradeSimulate  = "simulate"
	evQuickAddQuery  = "quick-query"
	evQuickAddFocus  = "quick-focus"
	evQuickAddClose  = "quick-close"
	evQuickAddSelect = "quick-select"
)

type tradeLivePage struct {
	calc *usecase.TradeCalculator
}

func newTradeLivePage(ctx context.Context, players player.Directory, simulator trade.Simulator, cfg usecase.TradeCalculatorConfig, runtime usecase.Runtime, onChange func()) *tradeLivePage {
	return &tradeLivePage{
		calc: usecase.NewTradeCalculator(ctx, players, simulator, cfg, runtime, onChange),
	}
}

func (p *tradeLivePage) mount() {}

func (p *tradeLivePage) handle(ev liveEvent) error {
	if ev.Type == evTradeSimulate {
		err := p.calc.Simulate()
		if errors.Is(err, usecase.ErrNothingToSimulate) {
			return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
		}
		return err
	}

	side, err := trade.ParseSide(ev.Target)
	if err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	switch ev.Type {
	case evTradeQuery:
		p.calc.SetQuery(side, ev.Value)
	case evTradeSearch:
		p.calc.Search(side)
	case evTradeAdd:
		p.calc.AddFromResults(side, ev.Value)
	case evTradeRemove:
		p.calc.Remove(side, ev.Value)
	case evQuickAddQuery:
		p.calc.QuickAdd(side).SetQuery(ev.Value)
	case evQuickAddFocus:
		p.calc.QuickAdd(side).Focus()
	case evQuickAddClose:
		p.calc.QuickAdd(side).ClickOutside()
	case evQuickAddSelect:
		p.calc.QuickAdd(side).Select(ev.Value)
	default:
		return errUnknownEvent
	}
	return nil
}

func (p *tradeLivePage) valueTarget(ev liveEvent) string {
	side, err := trade.ParseSide(ev.Target)
	if err != nil {
		return ""
	}
	switch ev.Type {
	case evTradeQuery:
		return "tc-q-" + side.Lower()
	case evQuickAddQuery:
		return "ss-q-" + side.Lower()
	default:
		return ""
	}
}

func (p *tradeLivePage) frame() liveFrame {
	return tradeFrame(p.calc.View())
}

func tradeFrame(view usecase.TradeView) liveFrame {
	frame := liveFrame{}
	for _, side := range []usecase.TradeSideView{view.A, view.B} {
		s := side.Side.Lower()
		frame.Fragments = append(frame.Fragments,
			fragmentSpec{Target: "tc-results-" + s, Name: "trade-results", Data: side},
			fragmentSpec{Target: "tc-picked-" + s, Name: "trade-picked", Data: side},
			fragmentSpec{Target: "ss-dropdown-" + s, Name: "search-select-dropdown", Data: side},
		)
		frame.Values = append(frame.Values,
			inputValue{Target: "tc-q-" + s, Value: side.Query},
			inputValue{Target: "ss-q-" + s, Value: side.QuickAdd.Query},
		)
	}
	frame.Fragments = append(frame.Fragments,
		fragmentSpec{Target: "tc-actions", Name: "trade-actions", Data: view},
		fragmentSpec{Target: "tc-result", Name: "trade-result", Data: view},
	)
	return frame
}

func (p *tradeLivePage) close() {
	p.calc.Close()
}

// Trending players events.
const (
	evTrendingSearch   = "search"
	evTrendingPosition = "position"
	evTrendingMin      = "min"
	evTrendingMax      = "max"
	evTrendingSort     = "sort"
	evTrendingOrder    = "order"
	evTrendingPage     = "page"
	evTrendingFirst    = "first"
	evTrendingPrev     = "prev"
	evTrendingNext     = "next"
	evTrendingLast     = "last"
	evTrendingPageSize = "page-size"
	evTrendingReset    = "reset"
)

type trendingLivePage struct {
	players *usecase.TrendingPlayers
}

func newTrendingLivePage(ctx context.Context, players player.Directory, query url.Values, cfg usecase.TrendingPlayersConfig, runtime usecase.Runtime, onChange func()) *trendingLivePage {
	return &trendingLivePage{
		players: usecase.NewTrendingPlayers(ctx, players, trending.ParseViewState(query), cfg, runtime, onChange),
	}
}

func (p *trendingLivePage) mount() {
	p.players.Mount()
}

func (p *trendingLivePage) handle(ev liveEvent) error {
	switch ev.Type {
	case evTrendingSearch:
		p.players.SetSearch(ev.Value)
	case evTrendingPosition:
		if _, ok := player.AllPositions[player.Position(ev.Value)]; !ok {
			return fmt.Errorf("%w: position %q", usecase.ErrInvalidInput, ev.Value)
		}
		p.players.TogglePosition(ev.Value)
	case evTrendingMin:
		p.players.SetMinVal(ev.Value)
	case evTrendingMax:
		p.players.SetMaxVal(ev.Value)
	case evTrendingSort:
		key := trending.SortKey(ev.Value)
		if !trending.ValidSortKey(key) {
			return fmt.Errorf("%w: sort key %q", usecase.ErrInvalidInput, ev.Value)
		}
		p.players.SetSortBy(key)
	case evTrendingOrder:
		p.players.ToggleOrder()
	case evTrendingPage:
		page, err := strconv.Atoi(ev.Value)
		if err != nil {
			return fmt.Errorf("%w: page %q", usecase.ErrInvalidInput, ev.Value)
		}
		p.players.GoToPage(page)
	case evTrendingFirst:
		p.players.FirstPage()
	case evTrendingPrev:
		p.players.PrevPage()
	case evTrendingNext:
		p.players.NextPage()
	case evTrendingLast:
		p.players.LastPage()
	case evTrendingPageSize:
		size, err := strconv.Atoi(ev.Value)
		if err != nil {
			return fmt.Errorf("%w: page size %q", usecase.ErrInvalidInput, ev.Value)
		}
		p.players.SetPageSize(size)
	case evTrendingReset:
		p.players.Reset()
	default:
		return errUnknownEvent
	}
	return nil
}

func (p *trendingLivePage) valueTarget(ev liveEvent) string {
	switch ev.Type {
	case evTrendingSearch:
		return "tp-q"
	case evTrendingMin:
		return "tp-min"
	case evTrendingMax:
		return "tp-max"
	default:
		return ""
	}
}

func (p *trendingLivePage) frame() liveFrame {
	return trendingFrame(p.players.View())
}

func trendingFrame(view usecase.TrendingView) liveFrame {
	model := newTrendingModel(view)
	return liveFrame{
		Fragments: []fragmentSpec{
			{Target: "tp-chips", Name: "trending-chips", Data: model},
			{Target: "tp-sorts", Name: "trending-sorts", Data: model},
			{Target: "tp-table", Name: "trending-table", Data: model},
			{Target: "tp-sidebar", Name: "trending-sidebar", Data: model},
		},
		Values: []inputValue{
			{Target: "tp-q", Value: view.SearchText},
			{Target: "tp-min", Value: view.MinText},
			{Target: "tp-max", Value: view.MaxText},
		},
		Location: "/trending?" + view.Query,
	}
}

func (p *trendingLivePage) close() {
	p.players.Close()
}
