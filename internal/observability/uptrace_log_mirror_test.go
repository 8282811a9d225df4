package observability

import (
	"errors"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"

	"github.com/riskibarqy/fantasy-manager-hub/internal/platform/logging"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	cases := []struct {
		name string
		msg  string
		args []any
		want bool
	}{
		{name: "static asset", msg: "http request", args: []any{"method", "GET", "route", "/static/*"}, want: true},
		{name: "page request", msg: "http request", args: []any{"route", "/trending"}},
		{name: "route on other message", msg: "live event rejected", args: []any{"route", "/static/*"}},
		{name: "ping noise", msg: "live ping failed", want: true},
		{name: "non-string route", msg: "http request", args: []any{"route", 42}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldSkipUptraceLog(tc.msg, tc.args); got != tc.want {
				t.Fatalf("shouldSkipUptraceLog = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"session_id", "session-1", 7, 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "session_id" || attrs[0].Value.AsString() != "session-1" {
		t.Fatalf("unexpected session_id attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "arg_1" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("expected positional key for non-string key, got %+v", attrs[1])
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("expected dangling key to be empty, got %+v", attrs[2])
	}
}

func TestToOTelLogValue(t *testing.T) {
	if v := toOTelLogValue(errors.New("boom"), 0); v.AsString() != "boom" {
		t.Fatalf("error value = %q", v.AsString())
	}
	if v := toOTelLogValue(1500*time.Millisecond, 0); v.AsString() != "1.5s" {
		t.Fatalf("duration value = %q", v.AsString())
	}
	if v := toOTelLogValue([]string{"QB", "WR"}, 0); v.Kind() != otellog.KindSlice || len(v.AsSlice()) != 2 {
		t.Fatalf("unexpected slice value: %v", v)
	}

	nested := toOTelLogValue(map[string]any{
		"page_size": 25,
		"filters":   map[string]any{"q": "jeff", "inner": map[string]any{"deep": true}},
	}, 0)
	if nested.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", nested.Kind())
	}
	items := nested.AsMap()
	if len(items) != 2 || items[0].Key != "filters" {
		t.Fatalf("expected sorted map keys, got %+v", items)
	}
	inner := items[0].Value.AsMap()
	if len(inner) != 2 || inner[0].Key != "inner" || inner[0].Value.Kind() != otellog.KindString {
		t.Fatalf("expected depth limit to flatten the innermost map, got %+v", inner)
	}
}

func TestToOTelSeverity(t *testing.T) {
	cases := map[logging.Level]otellog.Severity{
		logging.LevelDebug: otellog.SeverityDebug,
		logging.LevelInfo:  otellog.SeverityInfo,
		logging.LevelWarn:  otellog.SeverityWarn,
		logging.LevelError: otellog.SeverityError,
	}
	for level, want := range cases {
		if got := toOTelSeverity(level); got != want {
			t.Fatalf("toOTelSeverity(%s) = %v, want %v", level, got, want)
		}
	}
}
