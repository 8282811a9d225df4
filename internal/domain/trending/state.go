// Package trending models the trending players view: filters, sort and pagination as an
// immutable ViewState, and the query string derived from it.
package trending

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
)

type SortKey string

const (
	SortValuation    SortKey = "valuation"
	SortAdds24h      SortKey = "adds_24h"
	SortDrops24h     SortKey = "drops_24h"
	SortOverallRank  SortKey = "overall_rank"
	SortPositionRank SortKey = "position_rank"
	SortAge          SortKey = "age"
	SortName         SortKey = "name"
)

type SortOption struct {
	Key   SortKey
	Label string
}

// SortOptions lists the sortable columns in display order.
var SortOptions = []SortOption{
	{Key: SortValuation, Label: "Value"},
	{Key: SortAdds24h, Label: "Adds (24h)"},
	{Key: SortDrops24h, Label: "Drops (24h)"},
	{Key: SortOverallRank, Label: "Overall Rank"},
	{Key: SortPositionRank, Label: "Pos Rank"},
	{Key: SortAge, Label: "Age"},
	{Key: SortName, Label: "Name"},
}

func ValidSortKey(k SortKey) bool {
	for _, opt := range SortOptions {
		if opt.Key == k {
			return true
		}
	}
	return false
}

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

var PageSizes = []int{10, 25, 50, 100}

const (
	DefaultPageSize = 25
	DefaultSortBy   = SortValuation
	DefaultOrder    = OrderDesc
)

// ViewState is the full filter, sort and pagination state of the trending view. Reducers return a
// new value; the receiver is never modified.
type ViewState struct {
	Search    string
	Positions []string
	MinVal    *float64
	MaxVal    *float64
	SortBy    SortKey
	Order     Order
	Page      int
	PageSize  int
}

func DefaultViewState() ViewState {
	positions := make([]string, 0, len(player.DefaultPositions))
	for _, pos := range player.DefaultPositions {
		positions = append(positions, string(pos))
	}

	return ViewState{
		Positions: positions,
		SortBy:    DefaultSortBy,
		Order:     DefaultOrder,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
}

func (s ViewState) clone() ViewState {
	next := s
	next.Positions = slices.Clone(s.Positions)
	if s.MinVal != nil {
		v := *s.MinVal
		next.MinVal = &v
	}
	if s.MaxVal != nil {
		v := *s.MaxVal
		next.MaxVal = &v
	}
	return next
}

// WithSearch applies the (debounced) name filter.
func (s ViewState) WithSearch(q string) ViewState {
	next := s.clone()
	next.Search = q
	next.Page = 1
	return next
}

// TogglePosition adds pos when absent and removes it when present.
func (s ViewState) TogglePosition(pos string) ViewState {
	pos = strings.ToUpper(strings.TrimSpace(pos))
	next := s.clone()
	next.Page = 1
	if pos == "" {
		return next
	}

	if idx := slices.Index(next.Positions, pos); idx >= 0 {
		next.Positions = slices.Delete(next.Positions, idx, idx+1)
		return next
	}
	next.Positions = append(next.Positions, pos)
	return next
}

// WithMinVal sets the lower valuation bound; nil clears it.
func (s ViewState) WithMinVal(v *float64) ViewState {
	next := s.clone()
	next.MinVal = copyFloat(v)
	next.Page = 1
	return next
}

// WithMaxVal sets the upper valuation bound; nil clears it.
func (s ViewState) WithMaxVal(v *float64) ViewState {
	next := s.clone()
	next.MaxVal = copyFloat(v)
	next.Page = 1
	return next
}

// WithSortBy changes the sort column. Unknown keys leave the state unchanged.
func (s ViewState) WithSortBy(k SortKey) ViewState {
	if !ValidSortKey(k) {
		return s
	}
	next := s.clone()
	next.SortBy = k
	next.Page = 1
	return next
}

func (s ViewState) ToggleOrder() ViewState {
	next := s.clone()
	if next.Order == OrderAsc {
		next.Order = OrderDesc
	} else {
		next.Order = OrderAsc
	}
	next.Page = 1
	return next
}

// WithPage jumps to page, clamped to [1, lastPage].
func (s ViewState) WithPage(page, lastPage int) ViewState {
	next := s.clone()
	next.Page = clampPage(page, lastPage)
	return next
}

func (s ViewState) FirstPage() ViewState {
	return s.WithPage(1, 1)
}

func (s ViewState) PrevPage() ViewState {
	return s.WithPage(s.Page-1, s.Page)
}

func (s ViewState) NextPage(lastPage int) ViewState {
	return s.WithPage(s.Page+1, lastPage)
}

func (s ViewState) LastPage(lastPage int) ViewState {
	return s.WithPage(lastPage, lastPage)
}

// WithPageSize accepts only the sizes in PageSizes and always returns to page 1.
func (s ViewState) WithPageSize(size int) ViewState {
	if !slices.Contains(PageSizes, size) {
		return s
	}
	next := s.clone()
	next.PageSize = size
	next.Page = 1
	return next
}

// Reset restores every default at once.
func (s ViewState) Reset() ViewState {
	return DefaultViewState()
}

// RowNumber is the 1-based table position of the i-th item on the current page.
func (s ViewState) RowNumber(i int) int {
	return (s.Page-1)*s.PageSize + i + 1
}

// Query derives the request query string. Keys keep a fixed order, and q, positions, min_val and
// max_val are omitted when unset.
func (s ViewState) Query() string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add("page", strconv.Itoa(s.Page))
	add("page_size", strconv.Itoa(s.PageSize))
	if q := strings.TrimSpace(s.Search); q != "" {
		add("q", q)
	}
	if len(s.Positions) > 0 {
		add("positions", strings.Join(s.Positions, ","))
	}
	if s.MinVal != nil {
		add("min_val", formatFloat(*s.MinVal))
	}
	if s.MaxVal != nil {
		add("max_val", formatFloat(*s.MaxVal))
	}
	add("sort_by", string(s.SortBy))
	add("order", string(s.Order))

	return b.String()
}

// MoversQuery asks for the top limit players by a 24h activity column, highest first.
func MoversQuery(sortBy SortKey, limit int) string {
	return "sort_by=" + string(sortBy) + "&order=" + string(OrderDesc) + "&page=1&page_size=" + strconv.Itoa(limit)
}

// ParseViewState restores a state from a page URL. Missing or invalid values fall back to the
// defaults; an explicit empty positions parameter means no position filter.
func ParseViewState(values url.Values) ViewState {
	state := DefaultViewState()

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		state.Page = page
	}
	if size, err := strconv.Atoi(values.Get("page_size")); err == nil && slices.Contains(PageSizes, size) {
		state.PageSize = size
	}
	state.Search = strings.TrimSpace(values.Get("q"))
	if _, ok := values["positions"]; ok {
		state.Positions = player.NormalizePositions(strings.Split(values.Get("positions"), ","))
	}
	state.MinVal, _ = ParseBound(values.Get("min_val"))
	state.MaxVal, _ = ParseBound(values.Get("max_val"))
	if k := SortKey(values.Get("sort_by")); ValidSortKey(k) {
		state.SortBy = k
	}
	switch Order(values.Get("order")) {
	case OrderAsc:
		state.Order = OrderAsc
	case OrderDesc:
		state.Order = OrderDesc
	}

	return state
}

// ParseBound reads a min/max input. Blank input clears the bound (nil, true); unparsable or
// non-finite input reports false.
func ParseBound(raw string) (*float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &v, true
}

func FormatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func clampPage(page, lastPage int) int {
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		page = lastPage
	}
	if page < 1 {
		page = 1
	}
	return page
}
