// Package ui is the terminal viewer for an indexed log catalog.
//
// The Model is a Bubble Tea program driven by an engine.Engine. A periodic
// tick drains the engine's index and watch channels, so all catalog
// mutation stays on the Bubble Tea goroutine.
//
// Layout, top to bottom:
//
//   - Header: root directory, index progress, live/sort/regex flags
//   - Filter bar: one text input per filter field
//   - Table: base columns plus the user's visible columns, one page at a time
//   - Detail pane: highlighted JSON and source context for the selected row
//   - Footer: status line and key hints
//
// Theme, visible columns, regex mode and sort order persist through
// prefs.Save whenever they change.
package ui
