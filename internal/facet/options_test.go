package facet

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/facetnav/internal/tabular"
)

func TestOptionsForLevelExample(t *testing.T) {
	ds := exampleDataset()
	assert.Equal(t, []string{"A", "B"}, OptionsForLevel(ds, exampleSchema, FilterSet{}, 0))

	s := NewState(exampleSchema.Levels)
	s.SelectAt(0, "A")
	assert.Equal(t, []string{"X", "Y"}, OptionsForLevel(ds, exampleSchema, s.CurrentFilterSet(1), 1))
}

func TestOptionCountsCarryRowCounts(t *testing.T) {
	ds := deepDataset()
	got := OptionCounts(ds, deepSchema, FilterSet{}, 0)
	assert.Equal(t, []OptionCount{{Value: "工具", Count: 5}, {Value: "資材", Count: 3}}, got)

	fs := FilterSet{{Column: "分類１", Value: "工具"}, {Column: "分類２", Value: "電動工具"}, {Column: "分類３", Value: "ドリル"}, {Column: "分類４", Value: "充電式"}}
	got = OptionCounts(ds, deepSchema, fs, 4)
	assert.Equal(t, []OptionCount{{Value: "14.4V", Count: 1}, {Value: "18V", Count: 2}}, got)
}

func TestOptionsForLevelEmptyMeansNoRefinement(t *testing.T) {
	ds := deepDataset()
	fs := FilterSet{{Column: "分類１", Value: "工具"}, {Column: "分類２", Value: "手工具"}, {Column: "分類３", Value: "レンチ"}}
	assert.Empty(t, OptionsForLevel(ds, deepSchema, fs, 3))
}

func TestOptionsForLevelOutOfRange(t *testing.T) {
	ds := exampleDataset()
	assert.Empty(t, OptionsForLevel(ds, exampleSchema, FilterSet{}, -1))
	assert.Empty(t, OptionsForLevel(ds, exampleSchema, FilterSet{}, 2))
	assert.Empty(t, OptionsForLevel(tabular.Empty(), exampleSchema, FilterSet{}, 0))
	assert.Empty(t, OptionsForLevel(nil, exampleSchema, FilterSet{}, 0))
}

func TestOptionsIndependentOfRowOrder(t *testing.T) {
	base := []string{"b,1", "a,2", "c,3", "a,4", "B,5", "ä,6", "Z,7"}
	rng := rand.New(rand.NewSource(42))
	schema := Schema{Levels: []string{"k"}}

	var first []string
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(base), func(a, b int) { base[a], base[b] = base[b], base[a] })
		ds, _ := tabular.Parse("k,v\n"+strings.Join(base, "\n"), tabular.Options{})
		got := OptionsForLevel(ds, schema, FilterSet{}, 0)
		if first == nil {
			first = got
		}
		require.Equal(t, first, got)
	}
	assert.Equal(t, []string{"B", "Z", "a", "b", "c", "ä"}, first)
}

func TestOptionsStrictlySortedNoDuplicatesNoEmpty(t *testing.T) {
	ds := deepDataset()
	for level := 0; level < deepSchema.Depth(); level++ {
		for _, row := range ds.Rows {
			fs := FilterSet{}
			for i := 0; i < level; i++ {
				fs = append(fs, Filter{Column: deepSchema.Levels[i], Value: row.Get(deepSchema.Levels[i])})
			}
			got := OptionsForLevel(ds, deepSchema, fs, level)
			for i, v := range got {
				require.NotEmpty(t, v)
				if i > 0 {
					require.Less(t, got[i-1], v, "level %d options not strictly ascending: %v", level, got)
				}
			}
		}
	}
}

func TestFilterSetMatchesTrimmed(t *testing.T) {
	row := tabular.NewRow(0, map[string]string{"分類１": " A "})
	assert.True(t, FilterSet{{Column: "分類１", Value: "A"}}.Matches(row))
	assert.True(t, FilterSet{}.Matches(row))
	assert.False(t, FilterSet{{Column: "分類１", Value: "B"}}.Matches(row))
	assert.False(t, FilterSet{{Column: "unknown", Value: "A"}}.Matches(row))
}

func TestFilterSetHelpers(t *testing.T) {
	fs := FilterSet{{Column: "分類１", Value: "A"}, {Column: "分類２", Value: "X"}}
	v, ok := fs.Get("分類２")
	assert.True(t, ok)
	assert.Equal(t, "X", v)
	assert.Equal(t, map[string]string{"分類１": "A", "分類２": "X"}, fs.Map())
	assert.Equal(t, "分類１=A, 分類２=X", fs.String())

	c := fs.Clone()
	c[0].Value = "B"
	assert.Equal(t, "A", fs[0].Value)
	assert.Nil(t, FilterSet(nil).Clone())
}
