package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.RecordAPICall("players", OutcomeOK, time.Millisecond)
	r.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
	r.LiveSessionOpened("trending")
	r.LiveSessionClosed("trending")
	r.RecordLiveEvent("trending", "search", true)
	r.RecordStaleResponse("trending.players")
	r.SetCircuitOpen("fmhapi", true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 from nil recorder handler, got %d", rec.Code)
	}
}

func TestRecorder_CountsAPICalls(t *testing.T) {
	r := NewRecorder()
	r.RecordAPICall("player_trends.players", OutcomeOK, 20*time.Millisecond)
	r.RecordAPICall("player_trends.players", OutcomeOK, 30*time.Millisecond)
	r.RecordAPICall("player_trends.players", OutcomeRejected, 0)

	if got := testutil.ToFloat64(r.apiCalls.WithLabelValues("player_trends.players", OutcomeOK)); got != 2 {
		t.Fatalf("expected 2 ok calls, got %v", got)
	}
	if got := testutil.ToFloat64(r.apiCalls.WithLabelValues("player_trends.players", OutcomeRejected)); got != 1 {
		t.Fatalf("expected 1 rejected call, got %v", got)
	}
}

func TestRecorder_LiveSessionGauge(t *testing.T) {
	r := NewRecorder()
	r.LiveSessionOpened("trade-calculator")
	r.LiveSessionOpened("trade-calculator")
	r.LiveSessionClosed("trade-calculator")

	if got := testutil.ToFloat64(r.liveSessions.WithLabelValues("trade-calculator")); got != 1 {
		t.Fatalf("expected one open session, got %v", got)
	}
}

func TestRecorder_HandlerExposesMetrics(t *testing.T) {
	r := NewRecorder()
	r.RecordStaleResponse("trending.players")

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `fmh_stale_responses_total{component="trending.players"} 1`) {
		t.Fatalf("expected stale response counter in scrape output:\n%s", body)
	}
}
