package player

import "context"

// Directory is the read side of the player API.
type Directory interface {
	Search(ctx context.Context, query string) ([]Lite, error)
	// ListTrending fetches one page; rawQuery is an already encoded query string.
	ListTrending(ctx context.Context, rawQuery string) (Page, error)
}
