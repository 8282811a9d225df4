package trending

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
)

func float(v float64) *float64 { return &v }

func TestViewState_QueryOrderAndOmissions(t *testing.T) {
	state := DefaultViewState()
	state.Page = 2
	state.Positions = nil

	if got, want := state.Query(), "page=2&page_size=25&sort_by=valuation&order=desc"; got != want {
		t.Fatalf("query = %q, want %q", got, want)
	}
}

func TestViewState_QueryWithAllFilters(t *testing.T) {
	state := DefaultViewState().
		WithSearch("  St. Brown ").
		WithMinVal(float(10)).
		WithMaxVal(float(72.5)).
		WithSortBy(SortAdds24h)

	want := "page=1&page_size=25&q=St.+Brown&positions=QB%2CRB%2CWR%2CTE&min_val=10&max_val=72.5&sort_by=adds_24h&order=desc"
	if got := state.Query(); got != want {
		t.Fatalf("query = %q, want %q", got, want)
	}
}

func TestViewState_QueryOmitsBlankSearch(t *testing.T) {
	state := DefaultViewState().WithSearch("   ")
	if got := state.Query(); got != "page=1&page_size=25&positions=QB%2CRB%2CWR%2CTE&sort_by=valuation&order=desc" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestViewState_FilterReducersResetPage(t *testing.T) {
	base := DefaultViewState().WithPage(4, 10)
	if base.Page != 4 {
		t.Fatalf("expected page 4, got %d", base.Page)
	}

	reducers := map[string]func(ViewState) ViewState{
		"search":    func(s ViewState) ViewState { return s.WithSearch("kelce") },
		"position":  func(s ViewState) ViewState { return s.TogglePosition("TE") },
		"min":       func(s ViewState) ViewState { return s.WithMinVal(float(5)) },
		"max":       func(s ViewState) ViewState { return s.WithMaxVal(nil) },
		"sort":      func(s ViewState) ViewState { return s.WithSortBy(SortAge) },
		"order":     func(s ViewState) ViewState { return s.ToggleOrder() },
		"page size": func(s ViewState) ViewState { return s.WithPageSize(50) },
	}
	for name, reduce := range reducers {
		t.Run(name, func(t *testing.T) {
			if got := reduce(base).Page; got != 1 {
				t.Fatalf("expected page reset to 1, got %d", got)
			}
			if base.Page != 4 {
				t.Fatalf("reducer mutated its receiver")
			}
		})
	}
}

func TestViewState_TogglePosition(t *testing.T) {
	state := DefaultViewState().TogglePosition("rb")
	if diff := cmp.Diff([]string{"QB", "WR", "TE"}, state.Positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}

	state = state.TogglePosition("RB")
	if diff := cmp.Diff([]string{"QB", "WR", "TE", "RB"}, state.Positions); diff != "" {
		t.Fatalf("unexpected positions (-want +got):\n%s", diff)
	}

	if len(DefaultViewState().Positions) != len(player.DefaultPositions) {
		t.Fatalf("default positions were mutated")
	}
}

func TestViewState_PageNavigationClamps(t *testing.T) {
	state := DefaultViewState()

	if got := state.PrevPage().Page; got != 1 {
		t.Fatalf("prev at page 1 = %d", got)
	}
	state = state.NextPage(3).NextPage(3).NextPage(3)
	if state.Page != 3 {
		t.Fatalf("expected next to stop at last page, got %d", state.Page)
	}
	if got := state.FirstPage().Page; got != 1 {
		t.Fatalf("first page = %d", got)
	}
	if got := DefaultViewState().LastPage(7).Page; got != 7 {
		t.Fatalf("last page = %d", got)
	}
	if got := state.NextPage(0).Page; got != 1 {
		t.Fatalf("unknown total pages must clamp to 1, got %d", got)
	}
}

func TestViewState_WithPageSizeRejectsUnknownSizes(t *testing.T) {
	state := DefaultViewState().WithPage(3, 5)
	same := state.WithPageSize(30)
	if same.PageSize != DefaultPageSize || same.Page != 3 {
		t.Fatalf("unexpected state after invalid page size: %+v", same)
	}
}

func TestViewState_WithSortByRejectsUnknownKeys(t *testing.T) {
	state := DefaultViewState().WithSortBy("trend30")
	if state.SortBy != SortValuation {
		t.Fatalf("expected sort key unchanged, got %q", state.SortBy)
	}
}

func TestViewState_Reset(t *testing.T) {
	state := DefaultViewState().
		WithSearch("chase").
		TogglePosition("QB").
		WithMinVal(float(1)).
		WithSortBy(SortName).
		ToggleOrder().
		WithPageSize(100).
		WithPage(2, 4)

	if diff := cmp.Diff(DefaultViewState(), state.Reset()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestViewState_RowNumber(t *testing.T) {
	state := DefaultViewState().WithPage(3, 5)
	if got := state.RowNumber(0); got != 51 {
		t.Fatalf("row number = %d, want 51", got)
	}
}

func TestParseViewState_RoundTrip(t *testing.T) {
	state := DefaultViewState().
		WithSearch("lamb").
		TogglePosition("QB").
		WithMaxVal(float(40)).
		WithSortBy(SortDrops24h).
		ToggleOrder().
		WithPageSize(10).
		WithPage(2, 9)

	values, err := url.ParseQuery(state.Query())
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if diff := cmp.Diff(state, ParseViewState(values)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseViewState_Defaults(t *testing.T) {
	got := ParseViewState(url.Values{"page": {"-2"}, "page_size": {"7"}, "sort_by": {"bogus"}, "order": {"up"}})
	if diff := cmp.Diff(DefaultViewState(), got); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}

	empty := ParseViewState(url.Values{"positions": {""}})
	if len(empty.Positions) != 0 {
		t.Fatalf("expected explicit empty positions, got %v", empty.Positions)
	}
}

func TestParseBound(t *testing.T) {
	if v, ok := ParseBound(" "); !ok || v != nil {
		t.Fatalf("blank bound should clear")
	}
	if v, ok := ParseBound("12.5"); !ok || *v != 12.5 {
		t.Fatalf("unexpected parse result")
	}
	if _, ok := ParseBound("abc"); ok {
		t.Fatalf("expected invalid bound to be rejected")
	}
	for _, raw := range []string{"NaN", "Inf", "+Inf", "-inf", "1e999"} {
		if _, ok := ParseBound(raw); ok {
			t.Fatalf("expected non-finite bound %q to be rejected", raw)
		}
	}
}

func TestMoversQuery(t *testing.T) {
	if got, want := MoversQuery(SortDrops24h, 5), "sort_by=drops_24h&order=desc&page=1&page_size=5"; got != want {
		t.Fatalf("movers query = %q, want %q", got, want)
	}
}
