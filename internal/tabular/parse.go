package tabular

import (
	"strings"
)

const byteOrderMark = "\ufeff"

// Options tunes Parse.
type Options struct {
	// Delimiter separates cells. Zero means ','.
	Delimiter rune
	// KeyColumn names the column whose empty value drops a row. Empty means
	// the first header column.
	KeyColumn string
}

// Stats reports what Parse did with the input, for logging.
type Stats struct {
	Lines           int
	Rows            int
	BlankLines      int
	DroppedEmptyKey int
	ShortRows       int
	LongRows        int
	KeyColumn       string
}

// Parse converts delimited text into a Dataset. It never fails: empty input
// yields an empty dataset and malformed rows are padded with empty cells.
//
// Lines may end in \r\n, \n or \r. The first non-blank line is the header.
// A delimiter inside double quotes does not split a cell; doubled quotes are
// not unescaped.
func Parse(text string, opts Options) (*Dataset, Stats) {
	var stats Stats
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	text = strings.TrimPrefix(text, byteOrderMark)
	if strings.TrimSpace(text) == "" {
		return Empty(), stats
	}

	lines := splitLines(text)
	stats.Lines = len(lines)

	headerAt := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return Empty(), stats
	}

	rawHeader := splitCells(lines[headerAt], delim)
	header := make([]string, len(rawHeader))
	for i, h := range rawHeader {
		header[i] = cleanCell(strings.TrimPrefix(h, byteOrderMark))
	}

	key := opts.KeyColumn
	if key == "" && len(header) > 0 {
		key = header[0]
	}
	stats.KeyColumn = key

	ds := &Dataset{Header: header}
	for _, line := range lines[headerAt+1:] {
		if strings.TrimSpace(line) == "" {
			stats.BlankLines++
			continue
		}
		cells := splitCells(line, delim)
		switch {
		case len(cells) < len(header):
			stats.ShortRows++
		case len(cells) > len(header):
			stats.LongRows++
		}

		values := make(map[string]string, len(header))
		for i, h := range header {
			v := ""
			if i < len(cells) {
				v = cleanCell(cells[i])
			}
			values[h] = v
		}
		if values[key] == "" {
			stats.DroppedEmptyKey++
			continue
		}
		ds.Rows = append(ds.Rows, Row{Index: len(ds.Rows), cells: values})
	}
	stats.Rows = len(ds.Rows)
	return ds, stats
}

// splitLines splits on \r\n, \n and lone \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// splitCells scans line once, tracking whether it is inside double quotes so
// that a delimiter there stays part of the cell. Quotes are kept; cleanCell
// strips the outer pair.
func splitCells(line string, delim rune) []string {
	var (
		cells    []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == delim && !inQuotes:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(cells, cur.String())
}

// cleanCell trims whitespace and removes one layer of surrounding double quotes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}
