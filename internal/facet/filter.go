package facet

import (
	"strings"

	"github.com/oakwood-commons/facetnav/internal/tabular"
)

// Filter is one column = value equality constraint.
type Filter struct {
	Column string `json:"column" yaml:"column"`
	Value  string `json:"value" yaml:"value"`
}

// FilterSet is an ordered conjunction of filters, one per level column,
// shallowest level first.
type FilterSet []Filter

// Get returns the value constrained for column.
func (fs FilterSet) Get(column string) (string, bool) {
	for _, f := range fs {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

// Columns returns the constrained column names in order.
func (fs FilterSet) Columns() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Column
	}
	return out
}

// Map returns the filters as a column -> value map.
func (fs FilterSet) Map() map[string]string {
	out := make(map[string]string, len(fs))
	for _, f := range fs {
		out[f.Column] = f.Value
	}
	return out
}

// Clone returns an independent copy.
func (fs FilterSet) Clone() FilterSet {
	if fs == nil {
		return nil
	}
	return append(FilterSet(nil), fs...)
}

// Matches reports whether row satisfies every filter. Values compare after
// trimming whitespace; an empty set matches every row.
func (fs FilterSet) Matches(row tabular.Row) bool {
	for _, f := range fs {
		if strings.TrimSpace(row.Get(f.Column)) != strings.TrimSpace(f.Value) {
			return false
		}
	}
	return true
}

// String renders the set as "col=value, col=value".
func (fs FilterSet) String() string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.Column + "=" + f.Value
	}
	return strings.Join(parts, ", ")
}
