// Package table wraps the bubbles table with typed rows and a type-ahead
// filter.
package table

import (
	"fmt"
	"image/color"
	"strings"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"
)

// Re-export common table types so callers can construct columns/rows without
// importing bubbles directly.
type Column = bubtable.Column
type Row = bubtable.Row

// Model is a table over values of type V. Rows are rendered with toRow and
// filtered by a case-insensitive substring match on keyFunc.
type Model[V any] struct {
	table    bubtable.Model
	styles   bubtable.Styles
	rows     []V
	filter   string
	filtered []V
	columns  []Column

	toRow   func(V) Row
	keyFunc func(V) string

	width   int
	height  int
	focused bool
	noColor bool

	headerFG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel creates a new generic table model.
func NewModel[V any](
	columns []Column,
	toRow func(V) Row,
	keyFunc func(V) string,
) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
		bubtable.WithHeight(5),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	s.Selected = s.Selected.
		PaddingLeft(0).
		PaddingRight(0)
	s.Cell = lipgloss.NewStyle().
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	t.SetStyles(s)

	return &Model[V]{
		table:    t,
		styles:   s,
		rows:     []V{},
		filtered: []V{},
		columns:  columns,
		toRow:    toRow,
		keyFunc:  keyFunc,
		width:    80,
		height:   10,
		focused:  true,
	}
}

// SetRows replaces the row data and moves the cursor to the top.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	m.applyFilter()
	m.SetCursor(0)
}

// SetColumns updates the table columns and reapplies styles.
func (m *Model[V]) SetColumns(columns []Column) {
	m.columns = columns
	m.table.SetColumns(columns)
	m.applyColorScheme()
}

// Columns returns the current columns.
func (m *Model[V]) Columns() []Column {
	return m.columns
}

// Rows returns the current filtered rows.
func (m *Model[V]) Rows() []V {
	return m.filtered
}

// AllRows returns all unfiltered rows.
func (m *Model[V]) AllRows() []V {
	return m.rows
}

// SetFilter sets the filter text and reapplies filtering.
func (m *Model[V]) SetFilter(filter string) {
	m.filter = filter
	m.applyFilter()
}

// Filter returns the current filter text.
func (m *Model[V]) Filter() string {
	return m.filter
}

// ClearFilter removes the filter and shows all rows.
func (m *Model[V]) ClearFilter() {
	m.filter = ""
	m.applyFilter()
}

func (m *Model[V]) matches(v V) bool {
	return strings.Contains(strings.ToLower(m.keyFunc(v)), strings.ToLower(m.filter))
}

func (m *Model[V]) applyFilter() {
	if m.filter == "" {
		m.filtered = m.rows
	} else {
		m.filtered = []V{}
		for _, row := range m.rows {
			if m.matches(row) {
				m.filtered = append(m.filtered, row)
			}
		}
	}

	tableRows := make([]Row, len(m.filtered))
	for i, row := range m.filtered {
		tableRows[i] = m.toRow(row)
	}
	m.table.SetRows(tableRows)

	if m.Cursor() >= len(m.filtered) && len(m.filtered) > 0 {
		m.SetCursor(0)
	}
}

// Cursor returns the current cursor position.
func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

// SetCursor sets the cursor position.
func (m *Model[V]) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// SelectedRow returns the currently selected row value, or nil if no rows.
func (m *Model[V]) SelectedRow() *V {
	if len(m.filtered) == 0 {
		return nil
	}
	cursor := m.Cursor()
	if cursor < 0 || cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[cursor]
}

// SetSize sets the table dimensions and shrinks the widest columns until
// the row fits in width.
func (m *Model[V]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetWidth(width)
	m.table.SetHeight(height)
	m.table.SetColumns(FitColumns(m.columns, width))
}

// SetHeight updates only the table height, preserving current width.
func (m *Model[V]) SetHeight(height int) {
	m.SetSize(m.width, height)
}

// Focus sets the table focus state.
func (m *Model[V]) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur removes focus from the table.
func (m *Model[V]) Blur() {
	m.focused = false
	m.table.Blur()
}

// Focused returns true if the table has focus.
func (m *Model[V]) Focused() bool {
	return m.focused
}

// SetNoColor enables/disables color output.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets custom theme colors. Nil values keep the defaults.
func (m *Model[V]) SetColors(headerFG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles

	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}

	m.table.SetStyles(s)
	m.styles = s
}

// Update handles messages and updates the table state.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table to a string.
func (m *Model[V]) View() string {
	return m.table.View()
}

// String returns a string representation for debugging.
func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, filtered=%d, cursor=%d, filter=%q]",
		len(m.rows), len(m.filtered), m.Cursor(), m.filter)
}

// cellPadding is the right padding the cell and header styles add.
const cellPadding = 1

// FitColumns returns a copy of columns narrowed so that the rendered row,
// including cell padding, fits in width. The widest column gives up a cell
// at a time; no column goes below 4.
func FitColumns(columns []Column, width int) []Column {
	out := append([]Column(nil), columns...)
	total := func() int {
		n := 0
		for _, c := range out {
			n += c.Width + cellPadding
		}
		return n
	}
	for total() > width {
		widest := -1
		for i, c := range out {
			if c.Width > 4 && (widest < 0 || c.Width > out[widest].Width) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		out[widest].Width--
	}
	return out
}

// NaturalWidth returns the display width of the widest of title and the
// given cell values, capped at maxWidth when it is positive.
func NaturalWidth(title string, values []string, maxWidth int) int {
	w := runewidth.StringWidth(title)
	for _, v := range values {
		w = max(w, runewidth.StringWidth(v))
	}
	if maxWidth > 0 && w > maxWidth {
		return maxWidth
	}
	return w
}
