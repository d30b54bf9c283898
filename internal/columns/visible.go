package columns

import (
	"slices"
	"strings"
)

// AddStatus is the outcome of Visible.Add.
type AddStatus int

const (
	Added AddStatus = iota
	AlreadyVisible
	BaseColumn
	NotFound
	Empty
)

func (s AddStatus) String() string {
	switch s {
	case Added:
		return "added"
	case AlreadyVisible:
		return "already visible"
	case BaseColumn:
		return "base column"
	case NotFound:
		return "not found"
	case Empty:
		return "empty"
	}
	return "unknown"
}

// AddResult reports what Add did and the column it resolved to. For
// NotFound, Column holds the trimmed query.
type AddResult struct {
	Status AddStatus
	Column string
}

// Visible is the ordered list of dynamic columns shown next to the base
// columns. Entries are unique ignoring case.
type Visible struct {
	names []string
}

// NewVisible seeds the set with names, dropping base columns and duplicates.
func NewVisible(names []string) *Visible {
	v := &Visible{}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" && !IsBase(name) && !v.Contains(name) {
			v.names = append(v.names, name)
		}
	}
	return v
}

// Names returns a copy of the visible columns.
func (v *Visible) Names() []string {
	return slices.Clone(v.names)
}

// Contains reports whether name is visible, ignoring case.
func (v *Visible) Contains(name string) bool {
	return slices.IndexFunc(v.names, func(s string) bool { return strings.EqualFold(s, name) }) >= 0
}

// Add resolves query against available and appends the result.
func (v *Visible) Add(query string, available []string) AddResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return AddResult{Status: Empty}
	}
	resolved, ok := Resolve(query, available)
	switch {
	case !ok:
		return AddResult{Status: NotFound, Column: query}
	case IsBase(resolved):
		return AddResult{Status: BaseColumn, Column: resolved}
	case v.Contains(resolved):
		return AddResult{Status: AlreadyVisible, Column: resolved}
	}
	v.names = append(v.names, resolved)
	return AddResult{Status: Added, Column: resolved}
}

// Remove drops name, ignoring case. It reports whether anything was removed.
func (v *Visible) Remove(name string) bool {
	n := len(v.names)
	v.names = slices.DeleteFunc(v.names, func(s string) bool { return strings.EqualFold(s, name) })
	return len(v.names) != n
}

// Prune rewrites each entry to its stored spelling in available and drops
// entries that no longer exist. An empty available list clears the set.
func (v *Visible) Prune(available []string) {
	if len(available) == 0 {
		v.names = nil
		return
	}
	kept := v.names[:0]
	seen := make(map[string]struct{}, len(v.names))
	for _, name := range v.names {
		if IsBase(name) {
			continue
		}
		i := slices.IndexFunc(available, func(s string) bool { return strings.EqualFold(s, name) })
		if i < 0 {
			continue
		}
		canonical := available[i]
		lower := strings.ToLower(canonical)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		kept = append(kept, canonical)
	}
	v.names = kept
}

// SuggestLimit caps the number of suggestions.
const SuggestLimit = 5

// Suggest lists addable columns matching query by prefix or substring. An
// empty query matches everything. When nothing matches, the Resolve result
// is offered instead.
func Suggest(query string, available []string, visible *Visible, limit int) []string {
	if len(available) == 0 || limit <= 0 {
		return nil
	}
	addable := func(column string) bool {
		return !IsBase(column) && (visible == nil || !visible.Contains(column))
	}
	lowered := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, column := range available {
		if !addable(column) {
			continue
		}
		if lowered == "" || strings.Contains(strings.ToLower(column), lowered) {
			out = append(out, column)
			if len(out) == limit {
				return out
			}
		}
	}
	if len(out) == 0 && lowered != "" {
		if resolved, ok := Resolve(query, available); ok && addable(resolved) {
			out = append(out, resolved)
		}
	}
	return out
}
