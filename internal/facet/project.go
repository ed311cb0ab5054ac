package facet

import "github.com/oakwood-commons/facetnav/internal/tabular"

// Project returns the rows matching every filter in fs, in dataset order.
// An empty filter set returns no rows: at least the first level must be
// chosen before anything is shown.
func Project(ds *tabular.Dataset, fs FilterSet) []tabular.Row {
	if len(fs) == 0 || ds.Len() == 0 {
		return []tabular.Row{}
	}
	out := make([]tabular.Row, 0)
	for _, row := range ds.Rows {
		if fs.Matches(row) {
			out = append(out, row)
		}
	}
	return out
}
