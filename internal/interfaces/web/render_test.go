package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trade"
	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/trending"
	"github.com/riskibarqy/fantasy-manager-hub/internal/usecase"
)

func TestFormatHelpers(t *testing.T) {
	require.Equal(t, "13", wholeNumber(12.5))
	require.Equal(t, "87", wholeNumber(87.4))
	require.Equal(t, "0", wholeNumber(-0.4))
	require.Equal(t, "+3", signed(3))
	require.Equal(t, "0", signed(0))
	require.Equal(t, "-2", signed(-2))
	require.Equal(t, "-", optInt(nil))
	age := 24
	require.Equal(t, "24", optInt(&age))
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestTradeResultFragment_RendersNumbersVerbatim(t *testing.T) {
	r := newRenderer(t)

	html, err := r.Fragment("trade-result", usecase.TradeView{Result: &trade.SimulationResult{
		SideA:     trade.SideTotal{Total: 40},
		SideB:     trade.SideTotal{Total: 27.5},
		Delta:     12.5,
		Winner:    trade.WinnerA,
		MarginPct: 31.25,
	}})
	require.NoError(t, err)

	require.Contains(t, html, "<strong>Total A:</strong> 40")
	require.Contains(t, html, "<strong>Total B:</strong> 27.5")
	require.Contains(t, html, "<strong>Δ (A - B):</strong> 12.5")
	require.Contains(t, html, "<strong>Winner:</strong> A")
	require.Contains(t, html, "<strong>Margin %:</strong> 31.25%")

	empty, err := r.Fragment("trade-result", usecase.TradeView{})
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestTradeActionsFragment(t *testing.T) {
	r := newRenderer(t)

	html, err := r.Fragment("trade-actions", usecase.TradeView{CanSimulate: true, Error: "unknown player id p9"})
	require.NoError(t, err)
	require.NotContains(t, html, "disabled")
	require.Contains(t, html, `<p class="tc-error">unknown player id p9</p>`)

	html, err = r.Fragment("trade-actions", usecase.TradeView{CanSimulate: false})
	require.NoError(t, err)
	require.Contains(t, html, "disabled")
}

func TestSearchSelectDropdown_HiddenUntilVisible(t *testing.T) {
	r := newRenderer(t)
	side := usecase.TradeSideView{
		Side: trade.SideB,
		QuickAdd: usecase.SearchSelectView{
			Results: []player.Lite{{ID: "p7", Name: "Justin Jefferson", Position: "WR", Team: "MIN", Valuation: 87.44}},
		},
	}

	html, err := r.Fragment("search-select-dropdown", side)
	require.NoError(t, err)
	require.Empty(t, html)

	side.QuickAdd.DropdownVisible = true
	html, err = r.Fragment("search-select-dropdown", side)
	require.NoError(t, err)
	require.Contains(t, html, `data-ev="quick-select" data-target="b" data-value="p7"`)
	require.Contains(t, html, "WR • MIN • 87.4")
}

func TestTrendingTableFragment(t *testing.T) {
	r := newRenderer(t)
	state := trending.DefaultViewState().WithPage(2, 3)
	age := 27
	page := &player.Page{
		Page: 2, PageSize: 25, Total: 60, TotalPages: 3,
		Items: []player.Row{
			{ID: "1", Name: "Puka Nacua", Position: "WR", Team: "LAR", Age: &age, Valuation: 74.6, Adds24h: 120, Drops24h: 4},
			{ID: "2", Name: "Rookie Back", Position: "RB", Team: "NYJ", Valuation: 12.2},
		},
	}
	view := usecase.TrendingView{State: state, Page: page, Pager: trending.NewPager(state, page)}

	html, err := r.Fragment("trending-table", newTrendingModel(view))
	require.NoError(t, err)

	require.Contains(t, html, "<td>26</td>")
	require.Contains(t, html, "<td>27</td>")
	require.Contains(t, html, `<td class="num">75</td>`)
	require.Contains(t, html, `<td class="num pos">&#43;120</td>`)
	require.Contains(t, html, `<td class="num neg">&#43;4</td>`)
	require.Contains(t, html, "<td>-</td>")
	require.Contains(t, html, "Page 2 / 3 • Total 60")
	require.Contains(t, html, `<option value="2" selected>2</option>`)
	require.Contains(t, html, `<option value="25" selected>25/page</option>`)
	require.NotContains(t, html, `data-ev="next" disabled`)
}

func TestTrendingTableFragment_RowNumbersFollowResponsePage(t *testing.T) {
	r := newRenderer(t)
	state := trending.DefaultViewState()
	page := &player.Page{
		Page: 3, PageSize: 10, Total: 45, TotalPages: 5,
		Items: []player.Row{{ID: "1", Name: "Puka Nacua", Position: "WR", Team: "LAR"}},
	}
	view := usecase.TrendingView{State: state, Page: page, Pager: trending.NewPager(state, page)}

	html, err := r.Fragment("trending-table", newTrendingModel(view))
	require.NoError(t, err)
	require.Contains(t, html, "<td>21</td>")
	require.NotContains(t, html, "<td>1</td>")
}

func TestRowNumber_FallsBackToRequestedPage(t *testing.T) {
	view := usecase.TrendingView{State: trending.DefaultViewState().WithPage(2, 4)}
	require.Equal(t, 26, rowNumber(view, 0))
}

func TestTrendingTableFragment_States(t *testing.T) {
	r := newRenderer(t)
	state := trending.DefaultViewState()

	html, err := r.Fragment("trending-table", newTrendingModel(usecase.TrendingView{State: state, Loading: true}))
	require.NoError(t, err)
	require.Equal(t, `<div class="muted">Loading…</div>`, html)

	html, err = r.Fragment("trending-table", newTrendingModel(usecase.TrendingView{State: state, Error: "Failed to load players"}))
	require.NoError(t, err)
	require.Equal(t, `<div class="error">Failed to load players</div>`, html)

	empty := &player.Page{Page: 1, PageSize: 25}
	html, err = r.Fragment("trending-table", newTrendingModel(usecase.TrendingView{State: state, Page: empty, Pager: trending.NewPager(state, empty)}))
	require.NoError(t, err)
	require.Contains(t, html, "No players")
	require.Contains(t, html, "Page 1 / 1 • Total 0")
	require.Contains(t, html, `data-ev="first" disabled`)
	require.Contains(t, html, `data-ev="last" disabled`)
}

func TestTrendingSidebarFragment(t *testing.T) {
	r := newRenderer(t)

	html, err := r.Fragment("trending-sidebar", newTrendingModel(usecase.TrendingView{
		State:   trending.DefaultViewState(),
		Risers:  []player.Row{{Name: "Riser", Adds24h: 310}},
		Fallers: []player.Row{{Name: "Faller", Drops24h: 95}},
	}))
	require.NoError(t, err)

	require.Contains(t, html, `<span class="pos">+310</span>`)
	require.Contains(t, html, `<span class="neg">-95</span>`)
	require.True(t, strings.Index(html, "Top Risers") < strings.Index(html, "Top Fallers"))
}

func TestRenderer_UnknownTemplates(t *testing.T) {
	r := newRenderer(t)

	_, err := r.Fragment("nope", nil)
	require.Error(t, err)
	require.Error(t, r.Page(&strings.Builder{}, "nope", layoutData{}))
}
