package filter

import (
	"slices"
	"testing"

	"github.com/smooai/log-viewer/internal/catalog"
	"github.com/smooai/log-viewer/internal/record"
)

func sampleRows() []catalog.Row {
	mk := func(level, service, msg string, flat map[string]string) catalog.Row {
		return catalog.Row{Record: record.Record{Level: level, Service: service, Message: msg, Flat: flat}}
	}
	return []catalog.Row{
		mk("error", "api", "request failed", map[string]string{"user.id": "u-42"}),
		mk("info", "api", "request ok", nil),
		mk("error", "worker", "job crashed", nil),
		mk("ERROR", "API-gateway", "upstream timeout", map[string]string{"status": "504"}),
	}
}

func TestApply(t *testing.T) {
	rows := sampleRows()
	tests := []struct {
		name string
		f    Filters
		want []int
	}{
		{"no filters keeps order", Filters{}, []int{0, 1, 2, 3}},
		{"level and service both apply", Filters{Level: "err", Service: "api"}, []int{0, 3}},
		{"level only", Filters{Level: "err"}, []int{0, 2, 3}},
		{"substring is case-insensitive", Filters{Service: "GATEWAY"}, []int{3}},
		{"free text searches flat values", Filters{Text: "u-42"}, []int{0}},
		{"free text and scoped", Filters{Text: "request", Level: "info"}, []int{1}},
		{"regex", Filters{Level: "^error$", Regex: true}, []int{0, 2}},
		{"regex free text", Filters{Text: `\b50\d\b`, Regex: true}, []int{3}},
		{"invalid regex is unconstrained", Filters{Level: "(", Service: "worker", Regex: true}, []int{2}},
		{"invalid free-text regex is unconstrained", Filters{Text: "[", Regex: true}, []int{0, 1, 2, 3}},
		{"nothing matches", Filters{Trace: "abc"}, []int{}},
		{"absent field fails match-all regex", Filters{Namespace: ".*", Regex: true}, []int{}},
		{"absent field fails empty-anchored regex", Filters{Trace: "^$", Regex: true}, []int{}},
		{"free text spans adjacent fields", Filters{Text: "failed error"}, []int{0}},
		{"free text spans message and flat value", Filters{Text: "timeout error api-gateway 504"}, []int{3}},
		{"missing fields add no blank runs", Filters{Text: "  "}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(rows, tt.f); !slices.Equal(got, tt.want) {
				t.Fatalf("Apply = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_PreservesCurrentOrder(t *testing.T) {
	rows := sampleRows()
	slices.Reverse(rows)
	got := Apply(rows, Filters{Level: "error"})
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("indexes not ascending: %v", got)
		}
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want 3", len(got))
	}
}

func TestApply_ScopedFilterRequiresField(t *testing.T) {
	rows := []catalog.Row{
		{Record: record.Record{Message: "a", Namespace: "billing"}},
		{Record: record.Record{Message: "b"}},
		{Record: record.Record{Message: "c", Namespace: "indexing"}},
	}
	for _, f := range []Filters{
		{Namespace: ".*", Regex: true},
		{Namespace: "i"},
	} {
		if got := Apply(rows, f); !slices.Equal(got, []int{0, 2}) {
			t.Fatalf("Apply(%+v) = %v, want [0 2]", f, got)
		}
	}
	if got := Apply(rows, Filters{Namespace: "(", Regex: true}); len(got) != 3 {
		t.Fatalf("invalid regex should keep every row, got %v", got)
	}
}

func TestHaystack(t *testing.T) {
	row := catalog.Row{Record: record.Record{
		Message:   "m",
		Level:     "info",
		TraceID:   "t",
		RequestID: "r",
		Flat:      map[string]string{"b": "2", "a": "1"},
	}}
	if got, want := Haystack(&row), "m info t r 1 2 "; got != want {
		t.Fatalf("Haystack = %q, want %q", got, want)
	}
}

func TestCompileCachesFailures(t *testing.T) {
	if Valid("(") {
		t.Fatalf("Valid(\"(\") = true")
	}
	if !Valid("a+") {
		t.Fatalf("Valid(\"a+\") = false")
	}
	cacheMu.Lock()
	re, ok := cache["("]
	cacheMu.Unlock()
	if !ok || re != nil {
		t.Fatalf("invalid pattern not cached as nil")
	}
}

func TestFiltersIsZero(t *testing.T) {
	if !(Filters{Regex: true}).IsZero() {
		t.Fatalf("regex flag alone should be zero")
	}
	if (Filters{Namespace: "x"}).IsZero() {
		t.Fatalf("namespace filter should not be zero")
	}
}
