package trade

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
)

// Side names one half of a proposed trade.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

func ParseSide(v string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(v))) {
	case SideA:
		return SideA, nil
	case SideB:
		return SideB, nil
	default:
		return "", fmt.Errorf("invalid trade side %q", v)
	}
}

// Lower is the side as used in element ids ("a" or "b").
func (s Side) Lower() string {
	return strings.ToLower(string(s))
}

// Selection holds the players picked for each side. It is an immutable value: Add and Remove
// return a new Selection. A player id appears on at most one side.
type Selection struct {
	a []player.Lite
	b []player.Lite
}

// Players returns a copy of the side's picks in insertion order.
func (s Selection) Players(side Side) []player.Lite {
	src := s.a
	if side == SideB {
		src = s.b
	}
	out := make([]player.Lite, len(src))
	copy(out, src)
	return out
}

func (s Selection) Contains(id string) bool {
	return indexOf(s.a, id) >= 0 || indexOf(s.b, id) >= 0
}

func (s Selection) Empty() bool {
	return len(s.a) == 0 && len(s.b) == 0
}

// Add appends p to side. It reports false and returns s unchanged when p is already on either side.
func (s Selection) Add(side Side, p player.Lite) (Selection, bool) {
	if p.ID == "" || s.Contains(p.ID) {
		return s, false
	}

	next := s.clone()
	if side == SideB {
		next.b = append(next.b, p)
	} else {
		next.a = append(next.a, p)
	}
	return next, true
}

// Remove drops id from side. It reports false when the side does not hold id.
func (s Selection) Remove(side Side, id string) (Selection, bool) {
	list := s.a
	if side == SideB {
		list = s.b
	}
	idx := indexOf(list, id)
	if idx < 0 {
		return s, false
	}

	kept := make([]player.Lite, 0, len(list)-1)
	kept = append(kept, list[:idx]...)
	kept = append(kept, list[idx+1:]...)

	next := s.clone()
	if side == SideB {
		next.b = kept
	} else {
		next.a = kept
	}
	return next, true
}

// Request builds the simulate payload from the current picks.
func (s Selection) Request() SimulationRequest {
	return SimulationRequest{
		SideA: ids(s.a),
		SideB: ids(s.b),
	}
}

func (s Selection) clone() Selection {
	return Selection{
		a: append([]player.Lite(nil), s.a...),
		b: append([]player.Lite(nil), s.b...),
	}
}

func indexOf(list []player.Lite, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func ids(list []player.Lite) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

type SimulationRequest struct {
	SideA []string `validate:"dive,required"`
	SideB []string `validate:"dive,required"`
}

// SimulationResult is computed by the backend and rendered as-is.
type SimulationResult struct {
	SideA     SideTotal
	SideB     SideTotal
	Delta     float64
	Winner    string
	MarginPct float64
}

type SideTotal struct {
	Total   float64
	Players []ValuedPlayer
}

// ValuedPlayer is the per-player breakdown echoed by the simulator. Error is set for ids the
// backend does not know.
type ValuedPlayer struct {
	SleeperID string
	FullName  string
	Position  string
	Team      string
	Valuation float64
	Error     string
}

const (
	WinnerA    = "A"
	WinnerB    = "B"
	WinnerEven = "even"
)

// FormatNumber renders a number in its shortest exact decimal form, so 12.5 stays "12.5" and 40
// stays "40".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
