package formatter

import (
	"fmt"
	"sort"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
)

// ColumnHint provides display hints for one column of a columnar table.
type ColumnHint struct {
	// MaxWidth caps the column width in display cells. 0 = no cap.
	MaxWidth int

	// Priority controls column importance when shrinking.
	// Higher values resist shrinking; lower values shrink first.
	Priority int

	// Align controls text alignment: "right" or "left" (default).
	Align string
}

// ColumnarOptions configures columnar table rendering.
type ColumnarOptions struct {
	// NoColor disables color output
	NoColor bool

	// TotalWidth is the total available width. If 0, uses terminal width.
	TotalWidth int

	// RowNumberStyle controls how row numbers are displayed:
	//   "numbered" - 1, 2, 3 (default)
	//   "index"    - [0], [1], [2]
	//   "none"     - no row number column
	RowNumberStyle string

	// ColumnHints are indexed like the columns passed to RenderColumnarTable.
	ColumnHints []ColumnHint
}

const (
	sepWidth    = 2
	minColWidth = 3
	maxColWidth = 40
)

// RenderColumnarTable renders rows under a header line and a rule. Cells
// wider than their column are truncated with "...".
func RenderColumnarTable(columns []string, rows [][]string, opts ColumnarOptions) string {
	if len(columns) == 0 || len(rows) == 0 {
		return ""
	}

	totalWidth := opts.TotalWidth
	if totalWidth <= 0 {
		totalWidth = TerminalWidth()
	}

	showRowNum := opts.RowNumberStyle != "none"
	rowNumWidth := 0
	if showRowNum {
		rowNumWidth = len(fmt.Sprintf("%d", len(rows))) + 2
		if opts.RowNumberStyle == "index" {
			rowNumWidth = len(fmt.Sprintf("[%d]", len(rows)-1)) + 1
		}
	}

	availableWidth := totalWidth - rowNumWidth
	if showRowNum {
		availableWidth -= sepWidth
	}
	colWidths := calculateColumnWidths(columns, rows, availableWidth, opts.ColumnHints)

	var b strings.Builder
	b.WriteString(renderHeader(columns, colWidths, rowNumWidth, showRowNum, opts.NoColor) + "\n")

	ruleWidth := rowNumWidth
	if showRowNum {
		ruleWidth += sepWidth
	}
	for i, w := range colWidths {
		ruleWidth += w
		if i < len(colWidths)-1 {
			ruleWidth += sepWidth
		}
	}
	rule := strings.Repeat("─", ruleWidth)
	if !opts.NoColor {
		rule = separatorStyle.Render(rule)
	}
	b.WriteString(rule + "\n")

	for i, row := range rows {
		b.WriteString(renderDataRow(i, row, colWidths, rowNumWidth, opts.RowNumberStyle, opts.NoColor, opts.ColumnHints) + "\n")
	}
	return b.String()
}

func calculateColumnWidths(columns []string, rows [][]string, availableWidth int, hints []ColumnHint) []int {
	numCols := len(columns)
	if numCols == 0 {
		return nil
	}

	widths := make([]int, numCols)
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < numCols {
				if w := runewidth.StringWidth(val); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	for i := range columns {
		if i < len(hints) && hints[i].MaxWidth > 0 && widths[i] > hints[i].MaxWidth {
			widths[i] = hints[i].MaxWidth
		}
	}

	usableWidth := availableWidth - (numCols-1)*sepWidth
	if sum(widths) <= usableWidth || usableWidth <= 0 {
		return widths
	}

	if len(hints) > 0 {
		return shrinkByPriority(widths, usableWidth, hints)
	}

	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	if total := sum(widths); total > usableWidth {
		for i := range widths {
			w := int(float64(widths[i]) / float64(total) * float64(usableWidth))
			if w < minColWidth {
				w = minColWidth
			}
			widths[i] = w
		}
		for sum(widths) > usableWidth {
			maxIdx := 0
			for i := 1; i < numCols; i++ {
				if widths[i] > widths[maxIdx] {
					maxIdx = i
				}
			}
			if widths[maxIdx] <= minColWidth {
				break
			}
			widths[maxIdx]--
		}
	}
	return widths
}

// shrinkByPriority reduces column widths to fit within usableWidth by shrinking
// lowest-priority columns first.
func shrinkByPriority(widths []int, usableWidth int, hints []ColumnHint) []int {
	excess := sum(widths) - usableWidth
	if excess <= 0 {
		return widths
	}

	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	priority := func(i int) int {
		if i < len(hints) {
			return hints[i].Priority
		}
		return 0
	}
	sort.SliceStable(order, func(a, b int) bool {
		return priority(order[a]) < priority(order[b])
	})

	for _, idx := range order {
		if excess <= 0 {
			break
		}
		shrinkable := widths[idx] - minColWidth
		if shrinkable <= 0 {
			continue
		}
		shrink := min(shrinkable, excess)
		widths[idx] -= shrink
		excess -= shrink
	}
	return widths
}

func renderHeader(columns []string, widths []int, rowNumWidth int, showRowNum, noColor bool) string {
	sep := strings.Repeat(" ", sepWidth)
	parts := make([]string, 0, len(columns)+1)

	if showRowNum {
		header := padRight("#", rowNumWidth)
		if !noColor {
			header = headerStyle.Render(header)
		}
		parts = append(parts, header)
	}
	for i, col := range columns {
		header := padRight(col, widths[i])
		if !noColor {
			header = headerStyle.Render(header)
		}
		parts = append(parts, header)
	}
	return strings.TrimRight(strings.Join(parts, sep), " ")
}

func renderDataRow(rowIndex int, values []string, widths []int, rowNumWidth int, rowNumStyle string, noColor bool, hints []ColumnHint) string {
	sep := strings.Repeat(" ", sepWidth)
	parts := make([]string, 0, len(widths)+1)

	if rowNumStyle != "none" {
		numStr := fmt.Sprintf("%d", rowIndex+1)
		if rowNumStyle == "index" {
			numStr = fmt.Sprintf("[%d]", rowIndex)
		}
		numStr = padRight(numStr, rowNumWidth)
		if !noColor {
			numStr = keyStyle.Render(numStr)
		}
		parts = append(parts, numStr)
	}

	for i, w := range widths {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		var cell string
		if i < len(hints) && hints[i].Align == "right" {
			cell = padLeft(val, w)
		} else {
			cell = padRight(val, w)
		}
		if !noColor {
			cell = valueStyle.Render(cell)
		}
		parts = append(parts, cell)
	}
	return strings.TrimRight(strings.Join(parts, sep), " ")
}

func sum(ws []int) int {
	total := 0
	for _, w := range ws {
		total += w
	}
	return total
}
