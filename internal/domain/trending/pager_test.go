package trending

import (
	"testing"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
)

func TestNewPager_Bounds(t *testing.T) {
	resp := &player.Page{Page: 1, PageSize: 25, Total: 80, TotalPages: 4}

	first := NewPager(DefaultViewState(), resp)
	if !first.FirstDisabled || !first.PrevDisabled {
		t.Fatalf("expected first/prev disabled on page 1")
	}
	if first.NextDisabled || first.LastDisabled {
		t.Fatalf("expected next/last enabled on page 1 of 4")
	}
	if len(first.Pages) != 4 || first.Pages[3] != 4 {
		t.Fatalf("unexpected page selector: %v", first.Pages)
	}

	last := NewPager(DefaultViewState().LastPage(4), resp)
	if !last.NextDisabled || !last.LastDisabled {
		t.Fatalf("expected next/last disabled on last page")
	}
	if last.FirstDisabled || last.PrevDisabled {
		t.Fatalf("expected first/prev enabled on last page")
	}
}

func TestNewPager_UnknownTotal(t *testing.T) {
	for _, resp := range []*player.Page{nil, {TotalPages: 0}} {
		p := NewPager(DefaultViewState(), resp)
		if p.LastPage != 1 || !p.NextDisabled || !p.LastDisabled {
			t.Fatalf("expected a single page when total is unknown, got %+v", p)
		}
	}
}
