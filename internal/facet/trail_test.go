package facet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailRootOnly(t *testing.T) {
	s := NewState(exampleSchema.Levels)
	got := Trail(s, "すべて")
	want := []Entry{{Label: "すべて", Level: 0, Filters: FilterSet{}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Trail() mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailCumulativeFilters(t *testing.T) {
	s := NewState(deepSchema.Levels)
	s.SelectAt(0, "工具")
	s.SelectAt(1, "電動工具")
	s.SelectAt(2, "ドリル")

	got := Trail(s, "すべて")
	want := []Entry{
		{Label: "すべて", Level: 0, Filters: FilterSet{}},
		{Label: "工具", Level: 1, Filters: FilterSet{{Column: "分類１", Value: "工具"}}},
		{Label: "電動工具", Level: 2, Filters: FilterSet{
			{Column: "分類１", Value: "工具"},
			{Column: "分類２", Value: "電動工具"},
		}},
		{Label: "ドリル", Level: 3, Filters: FilterSet{
			{Column: "分類１", Value: "工具"},
			{Column: "分類２", Value: "電動工具"},
			{Column: "分類３", Value: "ドリル"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Trail() mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got[0].IsRoot())
	assert.False(t, got[1].IsRoot())
}

func TestTrailToggleBackToRoot(t *testing.T) {
	s := NewState(exampleSchema.Levels)
	s.SelectAt(0, "A")
	s.SelectAt(0, "A")
	assert.False(t, s.IsAnySelected())
	assert.Len(t, Trail(s, "すべて"), 1)
}

func TestActivateRoundTrip(t *testing.T) {
	full := []string{"工具", "電動工具", "ドリル", "充電式", "18V", "本体のみ"}
	s := NewState(deepSchema.Levels)
	for i, v := range full {
		require.True(t, s.SelectAt(i, v))
	}

	for _, e := range Trail(s, "すべて") {
		restored := s.Clone()
		restored.Activate(e)
		assert.Equal(t, full[:e.Level], restored.Values(), "activating %q (level %d)", e.Label, e.Level)
	}
}

func TestActivateFromDifferentState(t *testing.T) {
	s := NewState(deepSchema.Levels)
	s.SelectAt(0, "工具")
	s.SelectAt(1, "電動工具")
	entry := Trail(s, "すべて")[1]

	other := NewState(deepSchema.Levels)
	other.SelectAt(0, "資材")
	other.SelectAt(1, "ねじ")
	other.SelectAt(2, "小ねじ")
	other.Activate(entry)
	assert.Equal(t, []string{"工具"}, other.Values())
}

func TestActivateClampsLevel(t *testing.T) {
	s := NewState(exampleSchema.Levels)
	s.SelectAt(0, "A")
	s.Activate(Entry{Level: -2})
	assert.False(t, s.IsAnySelected())

	s.Activate(Entry{Level: 9, Filters: FilterSet{{Column: "分類１", Value: "B"}, {Column: "分類２", Value: "X"}}})
	assert.Equal(t, []string{"B", "X"}, s.Values())
}
