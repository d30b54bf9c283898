package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smooai/log-viewer/internal/engine"
	"github.com/smooai/log-viewer/internal/prefs"
)

// focusArea is the component receiving key input.
type focusArea int

const (
	focusTable focusArea = iota
	focusFilters
	focusColumns
)

const defaultTick = 200 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    *engine.Engine
	Root      string
	Prefs     prefs.Prefs
	PrefsPath string
	Tick      time.Duration
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	engine    *engine.Engine
	root      string
	prefs     prefs.Prefs
	prefsPath string
	tick      time.Duration
	log       *slog.Logger
	keys      keyMap

	// UI state
	theme      Theme
	width      int
	height     int
	ready      bool
	focus      focusArea
	showHelp   bool
	showDetail bool
	flash      string

	// Components
	table  table.Model
	detail viewport.Model
	help   help.Model

	// Filter bar
	filterInputs [filterFieldCount]textinput.Model
	filterFocus  int

	// Column picker
	columnInput  textinput.Model
	columnRemove bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tick := opts.Tick
	if tick == 0 {
		tick = defaultTick
	}

	themeName := opts.Prefs.Theme
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := Model{
		ctx:       ctx,
		engine:    opts.Engine,
		root:      opts.Root,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		tick:      tick,
		log:       logger,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		help:      help.New(),
		table:     table.New(table.WithFocused(true)),
	}
	m.initFilterInputs()
	m.initColumnInput()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(openCmd(), tickCmd(m.tick))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detail = viewport.New(msg.Width, 0)
		}
		m.ready = true
		m.refresh()
		return m, nil

	case openMsg:
		if err := m.engine.Open(m.ctx, m.root); err != nil {
			m.flash = err.Error()
		}
		m.refresh()
		return m, nil

	case tickMsg:
		if m.engine.Drain() {
			m.refresh()
		}
		return m, tickCmd(m.tick)

	case clipboardMsg:
		if msg.err != nil {
			m.flash = "Copy failed: " + msg.err.Error()
		} else {
			m.flash = "Copied record to clipboard"
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.focus == focusColumns {
		return m.renderColumnPicker()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.focus {
	case focusFilters:
		return m.handleFilterKey(msg)
	case focusColumns:
		return m.handleColumnKey(msg)
	}
	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Filters):
		m.focus = focusFilters
		return m, m.filterInputs[m.filterFocus].Focus()

	case key.Matches(msg, m.keys.ToggleRegex):
		m.prefs.RegexMode = !m.prefs.RegexMode
		m.applyFilters()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ClearFilters):
		for i := range m.filterInputs {
			m.filterInputs[i].SetValue("")
		}
		m.applyFilters()
		return m, nil

	case key.Matches(msg, m.keys.AddColumn):
		return m, m.openColumnPicker(false)

	case key.Matches(msg, m.keys.RemoveColumn):
		return m, m.openColumnPicker(true)

	case key.Matches(msg, m.keys.ToggleSort):
		m.engine.SetNewestFirst(!m.engine.NewestFirst())
		m.savePrefs()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLive):
		m.engine.SetLive(!m.engine.Live())
		return m, nil

	case key.Matches(msg, m.keys.Reindex):
		if err := m.engine.StartFullIndex(m.ctx, m.root); err != nil {
			if errors.Is(err, engine.ErrIndexing) {
				m.flash = "Index already running"
			} else {
				m.flash = err.Error()
			}
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleDetail):
		m.showDetail = !m.showDetail
		if m.showDetail && m.engine.Selection() < 0 {
			m.engine.Select(m.engine.Page() * m.engine.PageSize())
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.showDetail = false
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if row, ok := m.engine.SelectedRow(); ok {
			return m, copyCmd(row.Raw)
		}
		return m, nil

	case key.Matches(msg, m.keys.DetailDown):
		m.detail.HalfPageDown()
		return m, nil

	case key.Matches(msg, m.keys.DetailUp):
		m.detail.HalfPageUp()
		return m, nil
	}

	return m.handleTableKey(msg)
}

// savePrefs persists the current viewer preferences.
func (m *Model) savePrefs() {
	newest := m.engine.NewestFirst()
	m.prefs.Theme = m.theme.Name
	m.prefs.VisibleColumns = m.engine.VisibleColumns()
	m.prefs.NewestFirst = &newest
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save prefs failed", "path", m.prefsPath, "err", err)
	}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	if m.showDetail {
		b.WriteString("\n")
		b.WriteString(m.renderDetail())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Messages

type tickMsg time.Time

type openMsg struct{}

type clipboardMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func openCmd() tea.Cmd {
	return func() tea.Msg { return openMsg{} }
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
