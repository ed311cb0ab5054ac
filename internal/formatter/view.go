package formatter

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/facetnav/internal/config"
	"github.com/oakwood-commons/facetnav/internal/facet"
	"github.com/oakwood-commons/facetnav/internal/limiter"
	"github.com/oakwood-commons/facetnav/internal/tabular"
)

// TrailSeparator joins trail entries on one line.
const TrailSeparator = " › "

var (
	trailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	currentStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// ViewOptions controls plain-text rendering of a facet view.
type ViewOptions struct {
	NoColor    bool
	Width      int
	ShowCounts bool
	Messages   config.Messages
	// EmptyDataset selects the "no data" message over "nothing selected".
	EmptyDataset bool
	// Window limits the result rows printed by RenderView. The status
	// message is still derived from every matching row.
	Window limiter.Config
}

// ResultRecords returns display labels and one record per row, in the
// schema's display column order.
func ResultRecords(schema facet.Schema, rows []tabular.Row) ([]string, [][]string) {
	cols := schema.DisplayColumns()
	header := make([]string, len(cols))
	keys := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.DisplayLabel()
		keys[i] = c.Key
	}
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = r.Values(keys)
	}
	return header, records
}

// RenderResults renders rows as a columnar table. Level columns get the
// lowest shrink priority so descriptive columns stay readable.
func RenderResults(schema facet.Schema, rows []tabular.Row, opts ViewOptions) string {
	header, records := ResultRecords(schema, rows)
	hints := make([]ColumnHint, len(header))
	for i := schema.Depth(); i < len(hints); i++ {
		hints[i].Priority = 1
	}
	return RenderColumnarTable(header, records, ColumnarOptions{
		NoColor:     opts.NoColor,
		TotalWidth:  opts.Width,
		ColumnHints: hints,
	})
}

// RenderOptions renders the choices at one level under a heading, with
// counts aligned in a column when enabled.
func RenderOptions(heading string, options []facet.OptionCount, opts ViewOptions) string {
	var b strings.Builder
	h := heading
	if !opts.NoColor {
		h = headerStyle.Render(h)
	}
	b.WriteString(h + "\n")

	width := 0
	for _, o := range options {
		width = max(width, runewidth.StringWidth(o.Value))
	}
	for _, o := range options {
		line := "  " + o.Value
		if opts.ShowCounts {
			count := opts.Messages.Count(o.Count)
			if !opts.NoColor {
				count = mutedStyle.Render(count)
			}
			line = "  " + padRight(o.Value, width) + "  " + count
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderTrail renders the trail on one line, each entry prefixed with the
// digit that activates it.
func RenderTrail(entries []facet.Entry, opts ViewOptions) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		label := "[" + strconv.Itoa(i) + "] " + e.Label
		if !opts.NoColor {
			if i == len(entries)-1 {
				label = currentStyle.Render(label)
			} else {
				label = trailStyle.Render(label)
			}
		}
		parts[i] = label
	}
	return strings.Join(parts, TrailSeparator)
}

// StatusMessage returns the line shown in place of the results table, or
// "" when there are rows to show.
func StatusMessage(v facet.View, opts ViewOptions) string {
	switch {
	case opts.EmptyDataset:
		return opts.Messages.NoData
	case !v.AnySelected:
		return opts.Messages.NothingSelected
	case v.NoMatch():
		return opts.Messages.NoResults
	}
	return ""
}

// RenderView composes the trail, the next level's options and the results
// table (or the status message that replaces it). Only the rows inside
// opts.Window are rendered.
func RenderView(schema facet.Schema, v facet.View, opts ViewOptions) string {
	var b strings.Builder
	b.WriteString(RenderTrail(v.Trail, opts) + "\n\n")

	if v.NextLevel >= 0 && len(v.Options) > 0 {
		b.WriteString(RenderOptions(schema.LevelColumn(v.NextLevel), v.Options, opts) + "\n")
	}

	if msg := StatusMessage(v, opts); msg != "" {
		b.WriteString(msg + "\n")
		return b.String()
	}
	b.WriteString(RenderResults(schema, limiter.Apply(opts.Window, v.Results), opts))
	return b.String()
}
