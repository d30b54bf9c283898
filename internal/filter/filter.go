// Package filter evaluates field-scoped and free-text criteria against
// catalog rows.
package filter

import (
	"regexp"
	"strings"
	"sync"

	"github.com/smooai/log-viewer/internal/catalog"
)

// Filters holds the active criteria. Empty strings are inactive.
type Filters struct {
	Text        string
	Level       string
	Correlation string
	Service     string
	Namespace   string
	Trace       string
	Request     string

	// Regex switches every criterion from case-insensitive substring
	// matching to regular expressions.
	Regex bool
}

// IsZero reports whether no criterion is set.
func (f Filters) IsZero() bool {
	return f.Text == "" && f.Level == "" && f.Correlation == "" && f.Service == "" &&
		f.Namespace == "" && f.Trace == "" && f.Request == ""
}

type scoped struct {
	pattern string
	field   func(*catalog.Row) string
}

func (f Filters) scoped() []scoped {
	all := []scoped{
		{f.Level, func(r *catalog.Row) string { return r.Level }},
		{f.Correlation, func(r *catalog.Row) string { return r.Correlation }},
		{f.Service, func(r *catalog.Row) string { return r.Service }},
		{f.Namespace, func(r *catalog.Row) string { return r.Namespace }},
		{f.Trace, func(r *catalog.Row) string { return r.TraceID }},
		{f.Request, func(r *catalog.Row) string { return r.RequestID }},
	}
	active := all[:0]
	for _, s := range all {
		if s.pattern != "" {
			active = append(active, s)
		}
	}
	return active
}

// matcher tests one criterion. A nil matcher accepts everything.
type matcher func(string) bool

func newMatcher(pattern string, regex bool) matcher {
	if regex {
		re := compile(pattern)
		if re == nil {
			return nil
		}
		return re.MatchString
	}
	needle := strings.ToLower(pattern)
	return func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	}
}

// Apply returns the indexes of rows matching every active criterion, in
// their current order. A row missing a filtered field is excluded; an
// invalid regular expression constrains nothing.
func Apply(rows []catalog.Row, f Filters) []int {
	type check struct {
		field func(*catalog.Row) string
		match matcher
	}
	var checks []check
	for _, s := range f.scoped() {
		if m := newMatcher(s.pattern, f.Regex); m != nil {
			checks = append(checks, check{s.field, m})
		}
	}
	var text matcher
	if f.Text != "" {
		text = newMatcher(f.Text, f.Regex)
	}

	out := make([]int, 0, len(rows))
	var b strings.Builder
rows:
	for i := range rows {
		row := &rows[i]
		for _, c := range checks {
			// An absent field never satisfies an active criterion.
			if v := c.field(row); v == "" || !c.match(v) {
				continue rows
			}
		}
		if text != nil {
			b.Reset()
			writeHaystack(&b, row)
			if !text(b.String()) {
				continue
			}
		}
		out = append(out, i)
	}
	return out
}

// Haystack is the text the free-text criterion is matched against: each
// present canonical field then every flattened value, each followed by a
// single space.
func Haystack(row *catalog.Row) string {
	var b strings.Builder
	writeHaystack(&b, row)
	return b.String()
}

func writeHaystack(b *strings.Builder, row *catalog.Row) {
	parts := [...]string{row.Message, row.Correlation, row.Level, row.Service, row.Namespace, row.TraceID, row.RequestID}
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(p)
		b.WriteByte(' ')
	}
	for _, v := range row.FlatValues() {
		b.WriteString(v)
		b.WriteByte(' ')
	}
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*regexp.Regexp{}
)

// compile returns the cached expression for pattern, or nil if it does not
// compile. Failures are cached too.
func compile(pattern string) *regexp.Regexp {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if re, ok := cache[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	cache[pattern] = re
	return re
}

// Valid reports whether pattern compiles as a regular expression.
func Valid(pattern string) bool {
	return compile(pattern) != nil
}
