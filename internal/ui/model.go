// Package ui implements the interactive faceted navigator on bubbletea.
package ui

import (
	"context"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/facetnav/internal/config"
	"github.com/oakwood-commons/facetnav/internal/facet"
	"github.com/oakwood-commons/facetnav/internal/formatter"
	"github.com/oakwood-commons/facetnav/internal/tabular"
	"github.com/oakwood-commons/facetnav/internal/ui/table"
)

type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseFailed
)

type pane int

const (
	paneOptions pane = iota
	paneResults
)

const (
	defaultWidth  = 100
	defaultHeight = 30

	maxOptionCell = 30
	maxResultCell = 24
)

// LoadFunc fetches and parses the dataset.
type LoadFunc func(ctx context.Context) (*tabular.Dataset, error)

// LoadedMsg carries the outcome of a LoadFunc.
type LoadedMsg struct {
	Dataset *tabular.Dataset
	Err     error
}

// SourceChangedMsg asks a ready model to reload its dataset.
type SourceChangedMsg struct{}

// Options configures a Model.
type Options struct {
	AppName    string
	Source     string
	Schema     facet.Schema
	Messages   config.Messages
	Theme      config.ThemeConfig
	NoColor    bool
	ShowCounts bool
	Load       LoadFunc
	// Picks are applied once the first load succeeds.
	Picks     []string
	SessionID string
	Context   context.Context
	Logger    logr.Logger
}

// Model is the bubbletea model. It owns a facet.Engine once the dataset has
// loaded and re-renders on every engine notification.
type Model struct {
	opts   Options
	styles Styles

	phase  phase
	err    error
	status string

	engine      *facet.Engine
	unsubscribe func()
	view        facet.View

	spinner   spinner.Model
	options   *table.Model[facet.OptionCount]
	results   *table.Model[tabular.Row]
	input     textinput.Model
	filtering bool
	focus     pane

	width  int
	height int
}

// New creates a model in the loading phase.
func New(opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	styles := NewStyles(opts.Theme, opts.NoColor)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Header

	ti := textinput.New()
	ti.Prompt = "/ "

	m := &Model{
		opts:    opts,
		styles:  styles,
		spinner: sp,
		input:   ti,
		width:   defaultWidth,
		height:  defaultHeight,
	}

	showCounts := opts.ShowCounts
	msgs := opts.Messages
	m.options = table.NewModel(
		m.optionColumns(nil),
		func(o facet.OptionCount) table.Row {
			if showCounts {
				return table.Row{o.Value, msgs.Count(o.Count)}
			}
			return table.Row{o.Value}
		},
		func(o facet.OptionCount) string { return o.Value },
	)
	keys := displayKeys(opts.Schema)
	m.results = table.NewModel(
		m.resultColumns(nil),
		func(r tabular.Row) table.Row { return r.Values(keys) },
		func(r tabular.Row) string { return strings.Join(r.Values(keys), " ") },
	)
	m.options.SetNoColor(opts.NoColor)
	m.results.SetNoColor(opts.NoColor)
	if !opts.NoColor {
		m.options.SetColors(styles.TableHeader, styles.TableSelected, styles.TableSelBG)
		m.results.SetColors(styles.TableHeader, styles.TableSelected, styles.TableSelBG)
	}
	m.layout()
	return m
}

func displayKeys(s facet.Schema) []string {
	cols := s.DisplayColumns()
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	return keys
}

// Engine returns the engine, or nil before the first successful load.
func (m *Model) Engine() *facet.Engine { return m.engine }

// Err returns the load error that moved the model to its error view.
func (m *Model) Err() error { return m.err }

// Ready reports whether a dataset has loaded.
func (m *Model) Ready() bool { return m.phase == phaseReady }

// Status returns the transient status line, such as a failed reload.
func (m *Model) Status() string { return m.status }

// Close detaches the model from its engine.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init starts the spinner and the initial load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *Model) load() tea.Cmd {
	load, ctx := m.opts.Load, m.opts.Context
	return func() tea.Msg {
		if load == nil {
			return LoadedMsg{Dataset: tabular.Empty()}
		}
		ds, err := load(ctx)
		return LoadedMsg{Dataset: ds, Err: err}
	}
}

// Update handles bubbletea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case LoadedMsg:
		m.handleLoaded(msg)
		return m, nil
	case SourceChangedMsg:
		if m.phase != phaseReady {
			return m, nil
		}
		m.opts.Logger.V(1).Info("source changed, reloading", "source", m.opts.Source)
		return m, m.load()
	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.filtering {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleLoaded(msg LoadedMsg) {
	switch m.phase {
	case phaseReady:
		if msg.Err != nil {
			m.opts.Logger.Error(msg.Err, "reload failed", "source", m.opts.Source)
			m.status = m.opts.Messages.LoadErrorPrefix + msg.Err.Error()
			return
		}
		m.status = ""
		m.engine.Reload(msg.Dataset)
		return
	case phaseFailed:
		return
	}

	if msg.Err != nil {
		m.fail(msg.Err)
		return
	}
	opts := []facet.Option{facet.WithLogger(m.opts.Logger)}
	if m.opts.SessionID != "" {
		opts = append(opts, facet.WithSessionID(m.opts.SessionID))
	}
	engine, err := facet.NewEngine(m.opts.Schema, msg.Dataset, opts...)
	if err != nil {
		m.fail(err)
		return
	}
	m.engine = engine
	m.unsubscribe = engine.Subscribe(m.applyView)
	m.phase = phaseReady
	if len(m.opts.Picks) > 0 {
		// Pick notifies even on error, leaving the valid prefix selected.
		if err := engine.Pick(m.opts.Picks...); err != nil {
			m.status = err.Error()
		}
		return
	}
	m.applyView(engine.View())
}

func (m *Model) fail(err error) {
	m.opts.Logger.Error(err, "load failed", "source", m.opts.Source)
	m.phase = phaseFailed
	m.err = err
}

func (m *Model) applyView(v facet.View) {
	m.view = v
	m.filtering = false
	m.input.Blur()
	m.input.SetValue("")

	m.options.ClearFilter()
	m.options.SetColumns(m.optionColumns(v.Options))
	m.options.SetRows(v.Options)
	m.results.ClearFilter()
	m.results.SetColumns(m.resultColumns(v.Results))
	m.results.SetRows(v.Results)

	if len(v.Options) > 0 {
		m.focus = paneOptions
	} else {
		m.focus = paneResults
	}
	m.syncFocus()
	m.layout()
}

func (m *Model) syncFocus() {
	if m.focus == paneOptions {
		m.options.Focus()
		m.results.Blur()
		return
	}
	m.results.Focus()
	m.options.Blur()
}

func (m *Model) optionColumns(options []facet.OptionCount) []table.Column {
	title := m.optionsTitle()
	values := make([]string, len(options))
	counts := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
		counts[i] = m.opts.Messages.Count(o.Count)
	}
	cols := []table.Column{{Title: title, Width: table.NaturalWidth(title, values, maxOptionCell)}}
	if m.opts.ShowCounts {
		cols = append(cols, table.Column{Title: "", Width: table.NaturalWidth("", counts, 0)})
	}
	return cols
}

func (m *Model) resultColumns(rows []tabular.Row) []table.Column {
	header, records := formatter.ResultRecords(m.opts.Schema, rows)
	cols := make([]table.Column, len(header))
	for i, h := range header {
		values := make([]string, len(records))
		for j, rec := range records {
			values[j] = rec[i]
		}
		cols[i] = table.Column{Title: h, Width: table.NaturalWidth(h, values, maxResultCell)}
	}
	return cols
}

func (m *Model) optionsTitle() string {
	depth := m.opts.Schema.Depth()
	if depth == 0 {
		return ""
	}
	level := m.view.NextLevel
	if level < 0 || level >= depth {
		level = depth - 1
	}
	return m.opts.Schema.LevelColumn(level)
}

// paneWidths splits the window between the options and results panes.
func (m *Model) paneWidths() (int, int) {
	optW := min(max(m.width/3, 20), 40)
	optW = min(optW, m.width/2)
	return optW, m.width - optW
}

// bodyHeight is the height of the panes; the rest holds the header, trail,
// status and help lines.
func (m *Model) bodyHeight() int {
	return max(m.height-4, 5)
}

func (m *Model) layout() {
	optW, resW := m.paneWidths()
	// Borders take two rows and columns; the pane title takes a row.
	inner := m.bodyHeight() - 3
	m.options.SetSize(max(optW-2, 1), max(inner, 1))
	m.results.SetSize(max(resW-2, 1), max(inner, 1))
	m.input.SetWidth(max(m.width-4, 10))
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	action, idx := actionFor(msg)
	if m.phase != phaseReady {
		if action == ActionQuit {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch action {
	case ActionQuit:
		return m, tea.Quit
	case ActionSelect:
		m.selectHighlighted()
	case ActionBack:
		m.engine.Back()
	case ActionTrail:
		if idx < len(m.view.Trail) {
			e := m.view.Trail[idx]
			m.engine.ActivateTrailEntry(e.Level, e.Filters)
		}
	case ActionReset:
		m.engine.ResetAll()
	case ActionFilter:
		if m.focus != paneOptions || len(m.options.AllRows()) == 0 {
			return m, nil
		}
		m.filtering = true
		m.input.SetValue(m.options.Filter())
		return m, m.input.Focus()
	case ActionClear:
		m.options.ClearFilter()
	case ActionFocus:
		if m.focus == paneOptions {
			m.focus = paneResults
		} else {
			m.focus = paneOptions
		}
		m.syncFocus()
	default:
		return m, m.updateFocused(msg)
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.input.Blur()
		m.options.ClearFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.input.Blur()
		m.selectHighlighted()
		return m, nil
	case "up", "down":
		return m, m.updateFocused(msg)
	case "ctrl+c":
		return m, tea.Quit
	}
	if msg.Key().Code == 0x03 {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.options.SetFilter(m.input.Value())
	return m, cmd
}

func (m *Model) selectHighlighted() {
	if m.focus != paneOptions || m.view.NextLevel < 0 {
		return
	}
	if sel := m.options.SelectedRow(); sel != nil {
		m.engine.SelectAt(m.view.NextLevel, sel.Value)
	}
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == paneOptions {
		_, cmd = m.options.Update(msg)
	} else {
		_, cmd = m.results.Update(msg)
	}
	return cmd
}

// View renders the full-screen frame.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render returns the frame as a string.
func (m *Model) Render() string {
	switch m.phase {
	case phaseLoading:
		return m.spinner.View() + " " + m.opts.Messages.Loading
	case phaseFailed:
		return m.styles.Error.Render(m.opts.Messages.LoadErrorPrefix + m.err.Error())
	}

	header := m.styles.Header.Render(m.opts.AppName)
	if m.opts.Source != "" {
		header += "  " + m.styles.Muted.Render(m.opts.Source)
	}
	header += "  " + m.styles.Muted.Render(m.opts.Messages.Count(m.engine.Dataset().Len()))

	trail := formatter.RenderTrail(m.view.Trail, formatter.ViewOptions{NoColor: m.opts.NoColor})

	optW, resW := m.paneWidths()
	h := m.bodyHeight()
	left := m.renderPane(m.optionsTitle(), m.optionsContent(), optW, h, m.focus == paneOptions)
	right := m.renderPane(m.opts.Messages.Count(len(m.view.Results)), m.resultsContent(), resW, h, m.focus == paneResults)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var status string
	switch {
	case m.filtering:
		status = m.input.View()
	case m.status != "":
		status = m.styles.Error.Render(m.status)
	case m.options.Filter() != "":
		status = m.styles.Muted.Render("/ " + m.options.Filter())
	}

	return strings.Join([]string{
		header,
		trail,
		body,
		status,
		m.styles.Muted.Render(HelpText),
	}, "\n")
}

func (m *Model) optionsContent() string {
	if len(m.options.Rows()) == 0 {
		return ""
	}
	return m.options.View()
}

func (m *Model) resultsContent() string {
	msg := formatter.StatusMessage(m.view, formatter.ViewOptions{
		Messages:     m.opts.Messages,
		EmptyDataset: m.engine.Dataset().Len() == 0,
	})
	if msg != "" {
		return m.styles.Muted.Render(msg)
	}
	return m.results.View()
}

// renderPane draws a bordered box of exactly width by height cells with
// title on its first inner line.
func (m *Model) renderPane(title, content string, width, height int, focused bool) string {
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)
	lines := append([]string{m.styles.PaneTitle.Render(title)}, strings.Split(content, "\n")...)
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	for i, l := range lines {
		l = ansi.Truncate(l, innerW, "")
		if w := ansi.StringWidth(l); w < innerW {
			l += strings.Repeat(" ", innerW-w)
		}
		lines[i] = l
	}
	style := m.styles.Pane
	if focused {
		style = m.styles.PaneFocused
	}
	return style.Render(strings.Join(lines, "\n"))
}
