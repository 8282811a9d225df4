package player

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a fantasy football roster position as reported by the backend.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
)

// DefaultPositions is the position filter a trending view starts with, in display order.
var DefaultPositions = []Position{
	PositionQuarterback,
	PositionRunningBack,
	PositionWideReceiver,
	PositionTightEnd,
}

var AllPositions = map[Position]struct{}{
	PositionQuarterback:  {},
	PositionRunningBack:  {},
	PositionWideReceiver: {},
	PositionTightEnd:     {},
}

// Lite is the compact player shape used by search results and trade selections.
type Lite struct {
	ID        string
	Name      string
	Position  string
	Team      string
	Valuation float64
}

// Summary renders the secondary dropdown line, e.g. "WR • MIN • 87.4".
func (p Lite) Summary() string {
	return fmt.Sprintf("%s • %s • %s", p.Position, p.Team, strconv.FormatFloat(p.Valuation, 'f', 1, 64))
}

// Row is one line of the trending table. Nil pointers mean the backend has no value.
type Row struct {
	ID           string
	Name         string
	Position     string
	Team         string
	Age          *int
	Valuation    float64
	OverallRank  *int
	PositionRank *int
	Trend30      *float64
	Adds24h      int
	Drops24h     int
}

// Filters echoes the filters the backend applied to a page.
type Filters struct {
	Query     string
	Positions []string
	Team      string
	MinVal    *float64
	MaxVal    *float64
}

// Page is one page of trending players.
type Page struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	SortBy     string
	Order      string
	Filters    Filters
	Items      []Row
}

// LastPage is TotalPages, or 1 when the backend reports none.
func (p Page) LastPage() int {
	if p.TotalPages < 1 {
		return 1
	}
	return p.TotalPages
}

func (p Page) Validate() error {
	if p.PageSize > 0 && len(p.Items) > p.PageSize {
		return fmt.Errorf("page holds %d items, more than page size %d", len(p.Items), p.PageSize)
	}
	if p.TotalPages > 0 && (p.Page < 1 || p.Page > p.TotalPages) {
		return fmt.Errorf("page %d outside [1, %d]", p.Page, p.TotalPages)
	}
	return nil
}

// Welcome is the home page headline.
type Welcome struct {
	Title   string
	Message string
}

func DefaultWelcome() Welcome {
	return Welcome{
		Title:   "Fantasy Manager Hub",
		Message: "The Tool to dominate your leagues",
	}
}

type PositionCount struct {
	Position string
	Count    int
}

type TeamCount struct {
	Team  string
	Count int
}

// NormalizePositions upper-cases, trims and de-duplicates positions, keeping first-seen order.
func NormalizePositions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		pos := strings.ToUpper(strings.TrimSpace(raw))
		if pos == "" {
			continue
		}
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		out = append(out, pos)
	}
	return out
}
