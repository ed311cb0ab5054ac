package facet

import (
	"slices"
	"strings"

	"github.com/oakwood-commons/facetnav/internal/tabular"
)

// OptionCount is one selectable value at a level and the number of rows
// under the current filters that carry it.
type OptionCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// OptionsForLevel returns the distinct non-empty values of the level's
// column among rows matching fs, in ascending byte order. An empty result
// means the level offers no further refinement.
func OptionsForLevel(ds *tabular.Dataset, schema Schema, fs FilterSet, level int) []string {
	counts := OptionCounts(ds, schema, fs, level)
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Value
	}
	return out
}

// OptionCounts is OptionsForLevel with a matching-row count per value.
func OptionCounts(ds *tabular.Dataset, schema Schema, fs FilterSet, level int) []OptionCount {
	column := schema.LevelColumn(level)
	if column == "" || ds.Len() == 0 {
		return []OptionCount{}
	}

	tally := make(map[string]int)
	for _, row := range ds.Rows {
		if !fs.Matches(row) {
			continue
		}
		v := strings.TrimSpace(row.Get(column))
		if v == "" {
			continue
		}
		tally[v]++
	}

	values := make([]string, 0, len(tally))
	for v := range tally {
		values = append(values, v)
	}
	slices.Sort(values)

	out := make([]OptionCount, len(values))
	for i, v := range values {
		out[i] = OptionCount{Value: v, Count: tally[v]}
	}
	return out
}
