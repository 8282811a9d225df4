package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/fantasy-manager-hub/internal/domain/player"
)

type stubWelcome struct {
	welcome player.Welcome
	err     error
}

func (s stubWelcome) Welcome(context.Context) (player.Welcome, error) {
	return s.welcome, s.err
}

func TestHomeService_Welcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fetcher WelcomeFetcher
		want    player.Welcome
	}{
		{
			name:    "backend headline",
			fetcher: stubWelcome{welcome: player.Welcome{Title: "Week 7", Message: "Waivers clear tonight"}},
			want:    player.Welcome{Title: "Week 7", Message: "Waivers clear tonight"},
		},
		{
			name:    "backend down",
			fetcher: stubWelcome{err: errors.New("connection refused")},
			want:    player.DefaultWelcome(),
		},
		{
			name:    "blank message",
			fetcher: stubWelcome{welcome: player.Welcome{Title: "Week 7"}},
			want:    player.Welcome{Title: "Week 7", Message: "The Tool to dominate your leagues"},
		},
		{
			name: "no fetcher",
			want: player.DefaultWelcome(),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := NewHomeService(tc.fetcher, nil).Welcome(context.Background())
			if got != tc.want {
				t.Fatalf("unexpected welcome: got=%+v want=%+v", got, tc.want)
			}
		})
	}
}

func TestErrorDetail(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("simulate"), &APIError{StatusCode: 400, Detail: "Unknown player id"})
	if got := ErrorDetail(wrapped, "fallback"); got != "Unknown player id" {
		t.Fatalf("unexpected detail: %q", got)
	}
	if got := ErrorDetail(errors.New("boom"), "fallback"); got != "fallback" {
		t.Fatalf("unexpected detail: %q", got)
	}
}
