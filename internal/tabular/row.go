// Package tabular turns delimited text into immutable rows keyed by header name.
package tabular

// Row is one parsed record. It is immutable once built; callers read cells
// through Get and receive copies from Map.
type Row struct {
	// Index is the row's position in the dataset, starting at 0.
	Index int
	cells map[string]string
}

// NewRow builds a row from a column/value mapping. The map is copied.
func NewRow(index int, cells map[string]string) Row {
	c := make(map[string]string, len(cells))
	for k, v := range cells {
		c[k] = v
	}
	return Row{Index: index, cells: c}
}

// Get returns the cell value for column, or "" when the column is unknown.
func (r Row) Get(column string) string {
	return r.cells[column]
}

// Has reports whether the row carries the column at all.
func (r Row) Has(column string) bool {
	_, ok := r.cells[column]
	return ok
}

// Values returns the cells for columns in order.
func (r Row) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = r.cells[c]
	}
	return out
}

// Map returns a copy of the row's cells.
func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.cells))
	for k, v := range r.cells {
		out[k] = v
	}
	return out
}

// Dataset is the ordered result of parsing: a header and the rows that survived
// the key-column check.
type Dataset struct {
	Header []string
	Rows   []Row
}

// Empty returns a dataset with no header and no rows.
func Empty() *Dataset {
	return &Dataset{}
}

// Len returns the number of rows; a nil dataset has none.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether name is one of the header columns.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, h := range d.Header {
		if h == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the names in want that the header does not declare.
func (d *Dataset) MissingColumns(want []string) []string {
	var missing []string
	for _, w := range want {
		if !d.HasColumn(w) {
			missing = append(missing, w)
		}
	}
	return missing
}

// Filter returns a new dataset holding the rows for which keep returns true.
// Row indexes are renumbered so they stay dense.
func (d *Dataset) Filter(keep func(Row) bool) *Dataset {
	if d == nil {
		return Empty()
	}
	out := &Dataset{Header: append([]string(nil), d.Header...)}
	for _, r := range d.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, Row{Index: len(out.Rows), cells: r.cells})
		}
	}
	return out
}
