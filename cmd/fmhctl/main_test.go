package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu      sync.Mutex
	queries map[string][]string
	bodies  []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{queries: map[string][]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.queries[r.URL.Path] = append(fb.queries[r.URL.Path], r.URL.RawQuery)
		fb.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`{"title":"Fantasy Manager Hub","message":"Trade smarter"}`))
		case "/trade_calculator/search":
			_, _ = w.Write([]byte(`[{"id":"p1","name":"Justin Jefferson","pos":"WR","team":"MIN","val":87.4}]`))
		case "/trade_calculator/simulate":
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(r.Body)
			fb.mu.Lock()
			fb.bodies = append(fb.bodies, buf.String())
			fb.mu.Unlock()
			if bytes.Contains(buf.Bytes(), []byte(`"bad"`)) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"detail":"unknown player bad"}`))
				return
			}
			_, _ = w.Write([]byte(`{"side_a":{"total":10,"players":[{"sleeper_id":"p1","full_name":"Justin Jefferson","position":"WR","team":"MIN","valuation":10}]},"side_b":{"total":7,"players":[]},"delta":3,"winner":"A","margin_pct":42.9}`))
		case "/player_trends/players":
			_, _ = w.Write([]byte(`{"page":1,"page_size":50,"total":1,"total_pages":1,"sort_by":"valuation","order":"desc","filters":{},"items":[{"id":"p1","name":"Justin Jefferson","position":"WR","team":"MIN","valuation":87.4,"adds_24h":120,"drops_24h":4}]}`))
		case "/player_trends/positions":
			_, _ = w.Write([]byte(`[{"position":"QB","count":32},{"position":"WR","count":96}]`))
		case "/player_trends/teams":
			_, _ = w.Write([]byte(`[{"team":"MIN","count":12}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) lastQuery(path string) string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	qs := fb.queries[path]
	if len(qs) == 0 {
		return ""
	}
	return qs[len(qs)-1]
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSearchCommand_PrintsTable(t *testing.T) {
	fb, srv := newFakeBackend(t)

	out, _, err := run(t, "search", "jeff", "--api-base-url", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, "Justin Jefferson")
	require.Contains(t, out, "87.4")
	require.Equal(t, "q=jeff", fb.lastQuery("/trade_calculator/search"))
}

func TestTrendingCommand_BuildsQueryFromFlags(t *testing.T) {
	fb, srv := newFakeBackend(t)

	out, _, err := run(t, "trending", "--api-base-url", srv.URL, "--positions", "wr", "--page-size", "50", "--min", "10")
	require.NoError(t, err)
	require.Equal(t,
		"page=1&page_size=50&positions=WR&min_val=10&sort_by=valuation&order=desc",
		fb.lastQuery("/player_trends/players"),
	)
	require.Contains(t, out, "Page 1 / 1 • Total 1")
}

func TestTrendingCommand_RejectsUnknownSort(t *testing.T) {
	_, srv := newFakeBackend(t)

	_, _, err := run(t, "trending", "--api-base-url", srv.URL, "--sort", "shoe_size")
	require.ErrorContains(t, err, "invalid --sort")
}

func TestMoversCommand_FetchesBothLists(t *testing.T) {
	fb, srv := newFakeBackend(t)

	out, _, err := run(t, "movers", "--api-base-url", srv.URL, "--limit", "3")
	require.NoError(t, err)
	require.Contains(t, out, "Top Risers (24h)")
	require.Contains(t, out, "Top Fallers (24h)")

	fb.mu.Lock()
	queries := append([]string(nil), fb.queries["/player_trends/players"]...)
	fb.mu.Unlock()
	require.ElementsMatch(t, []string{
		"sort_by=adds_24h&order=desc&page=1&page_size=3",
		"sort_by=drops_24h&order=desc&page=1&page_size=3",
	}, queries)
}

func TestSimulateCommand_PrintsSummary(t *testing.T) {
	fb, srv := newFakeBackend(t)

	out, _, err := run(t, "simulate", "--api-base-url", srv.URL, "--a", "p1", "--b", "p2")
	require.NoError(t, err)
	require.Contains(t, out, "Total A: 10")
	require.Contains(t, out, "Δ (A - B): 3")
	require.Contains(t, out, "Winner: A")
	require.Contains(t, out, "Margin %: 42.9%")
	require.Equal(t, []string{`{"side_a":["p1"],"side_b":["p2"]}`}, fb.bodies)
}

func TestSimulateCommand_RequiresPlayers(t *testing.T) {
	_, srv := newFakeBackend(t)

	_, _, err := run(t, "simulate", "--api-base-url", srv.URL)
	require.ErrorContains(t, err, "nothing to simulate")
}

func TestSimulateCommand_SurfacesBackendDetail(t *testing.T) {
	_, srv := newFakeBackend(t)

	_, _, err := run(t, "simulate", "--api-base-url", srv.URL, "--a", "bad")
	require.ErrorContains(t, err, "unknown player bad")
}

func TestPositionsCommand_ReadsBaseURLFromEnv(t *testing.T) {
	_, srv := newFakeBackend(t)
	t.Setenv("FMH_API_BASE_URL", srv.URL)

	out, _, err := run(t, "positions")
	require.NoError(t, err)
	require.Contains(t, out, "QB")
	require.Contains(t, out, "96")
}

func TestTeamsCommand_JSONOutput(t *testing.T) {
	_, srv := newFakeBackend(t)

	out, _, err := run(t, "teams", "--api-base-url", srv.URL, "-o", "json")
	require.NoError(t, err)
	require.Contains(t, out, `"Team": "MIN"`)
}

func TestWelcomeCommand(t *testing.T) {
	_, srv := newFakeBackend(t)

	out, _, err := run(t, "welcome", "--api-base-url", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, "Trade smarter")
}

func TestRootCommand_RejectsUnknownOutput(t *testing.T) {
	_, srv := newFakeBackend(t)

	_, _, err := run(t, "teams", "--api-base-url", srv.URL, "-o", "xml")
	require.ErrorContains(t, err, `invalid output "xml"`)
}
