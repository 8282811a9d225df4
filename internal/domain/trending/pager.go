package trending

import "github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"

// Pager is the pagination control derived from the view state and the last response.
type Pager struct {
	Page          int
	LastPage      int
	PageSize      int
	Total         int
	Pages         []int
	PageSizes     []int
	FirstDisabled bool
	PrevDisabled  bool
	NextDisabled  bool
	LastDisabled  bool
}

// NewPager builds the pager. A nil page (nothing loaded yet) behaves as a single page.
func NewPager(state ViewState, page *player.Page) Pager {
	last := 1
	total := 0
	if page != nil {
		last = page.LastPage()
		total = page.Total
	}

	pages := make([]int, 0, last)
	for i := 1; i <= last; i++ {
		pages = append(pages, i)
	}

	return Pager{
		Page:          state.Page,
		LastPage:      last,
		PageSize:      state.PageSize,
		Total:         total,
		Pages:         pages,
		PageSizes:     PageSizes,
		FirstDisabled: state.Page <= 1,
		PrevDisabled:  state.Page <= 1,
		NextDisabled:  state.Page >= last,
		LastDisabled:  state.Page >= last,
	}
}
