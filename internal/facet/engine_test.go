package facet

import (
	"errors"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/facetnav/internal/tabular"
)

func newTestEngine(t *testing.T, schema Schema, ds *tabular.Dataset) *Engine {
	t.Helper()
	e, err := NewEngine(schema, ds, WithLogger(testr.New(t)), WithSessionID("test-session"))
	require.NoError(t, err)
	return e
}

func TestNewEngineRejectsInvalidSchema(t *testing.T) {
	_, err := NewEngine(Schema{}, exampleDataset())
	assert.Error(t, err)
}

func TestNewEngineNilDataset(t *testing.T) {
	e := newTestEngine(t, exampleSchema, nil)
	assert.Equal(t, 0, e.Dataset().Len())
	assert.Empty(t, e.Options(0))
	assert.False(t, e.View().NoMatch())
}

func TestNewEngineGeneratesSessionID(t *testing.T) {
	a, err := NewEngine(exampleSchema, exampleDataset())
	require.NoError(t, err)
	b, err := NewEngine(exampleSchema, exampleDataset())
	require.NoError(t, err)
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
	assert.Equal(t, "test-session", newTestEngine(t, exampleSchema, nil).SessionID())
}

func TestEngineInitialView(t *testing.T) {
	e := newTestEngine(t, exampleSchema, exampleDataset())
	v := e.View()
	assert.Equal(t, 0, v.NextLevel)
	assert.Equal(t, []OptionCount{{Value: "A", Count: 2}, {Value: "B", Count: 1}}, v.Options)
	assert.Empty(t, v.Results)
	assert.False(t, v.AnySelected)
	assert.False(t, v.NoMatch())
	require.Len(t, v.Trail, 1)
	assert.Equal(t, DefaultRootLabel, v.Trail[0].Label)
}

func TestEngineSelectNotifiesSubscribers(t *testing.T) {
	e := newTestEngine(t, exampleSchema, exampleDataset())
	var views []View
	unsubscribe := e.Subscribe(func(v View) { views = append(views, v) })

	e.SelectAt(0, "A")
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].NextLevel)
	assert.Equal(t, []OptionCount{{Value: "X", Count: 1}, {Value: "Y", Count: 1}}, views[0].Options)
	assert.Len(t, views[0].Results, 2)

	e.SelectAt(1, "Y")
	require.Len(t, views, 2)
	assert.Equal(t, -1, views[1].NextLevel)
	assert.Nil(t, views[1].Options)
	require.Len(t, views[1].Results, 1)
	assert.Equal(t, "2", views[1].Results[0].Get("品番"))

	unsubscribe()
	e.ResetAll()
	assert.Len(t, views, 2)
	assert.False(t, e.AnySelected())
}

func TestEngineUnsubscribeDuringNotify(t *testing.T) {
	e := newTestEngine(t, exampleSchema, exampleDataset())
	calls := 0
	var second func()
	e.Subscribe(func(View) { second() })
	second = e.Subscribe(func(View) { calls++ })

	e.SelectAt(0, "A")
	e.SelectAt(0, "B")
	assert.Equal(t, 0, calls)
}

func TestEngineToggleReturnsToRoot(t *testing.T) {
	e := newTestEngine(t, exampleSchema, exampleDataset())
	e.SelectAt(0, "A")
	e.SelectAt(0, "A")
	assert.False(t, e.AnySelected())
	assert.Len(t, e.Trail(), 1)
	assert.Equal(t, 0, e.NextLevel())
}

func TestEngineBack(t *testing.T) {
	e := newTestEngine(t, deepSchema, deepDataset())
	e.Back()
	assert.False(t, e.AnySelected())

	require.NoError(t, e.Pick("工具", "電動工具", "ドリル"))
	e.Back()
	assert.Equal(t, []string{"工具", "電動工具"}, e.State().Values())
	e.Back()
	e.Back()
	assert.False(t, e.AnySelected())
}

func TestEngineActivateTrailEntry(t *testing.T) {
	e := newTestEngine(t, deepSchema, deepDataset())
	require.NoError(t, e.Pick("工具", "電動工具", "ドリル", "充電式"))
	entry := e.Trail()[2]
	e.ActivateTrailEntry(entry.Level, entry.Filters)
	assert.Equal(t, []string{"工具", "電動工具"}, e.State().Values())
	assert.Equal(t, []string{"ドリル"}, e.Options(2))
}

func TestEnginePick(t *testing.T) {
	e := newTestEngine(t, deepSchema, deepDataset())
	require.NoError(t, e.Pick("資材", "ねじ"))
	assert.Equal(t, FilterSet{{Column: "分類１", Value: "資材"}, {Column: "分類２", Value: "ねじ"}}, e.Filters())
	assert.Len(t, e.Results(), 3)

	err := e.Pick("資材", "電動工具")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownValue))
	assert.Equal(t, []string{"資材"}, e.State().Values())

	err = newTestEngine(t, exampleSchema, exampleDataset()).Pick("A", "X", "1")
	assert.ErrorIs(t, err, ErrUnknownValue)
}

func TestEnginePickErrorNotifiesValidPrefix(t *testing.T) {
	e := newTestEngine(t, deepSchema, deepDataset())
	var got []View
	e.Subscribe(func(v View) { got = append(got, v) })

	require.ErrorIs(t, e.Pick("工具", "存在しない"), ErrUnknownValue)
	require.Len(t, got, 1)
	assert.True(t, got[0].AnySelected)
	assert.Equal(t, 1, got[0].NextLevel)
	assert.Len(t, got[0].Trail, 2)
}

func TestEngineReloadResetsSelection(t *testing.T) {
	e := newTestEngine(t, exampleSchema, exampleDataset())
	e.SelectAt(0, "A")

	var last View
	e.Subscribe(func(v View) { last = v })
	ds, _ := tabular.Parse("分類１,分類２,品番\nC,Z,9\n", tabular.Options{})
	e.Reload(ds)

	assert.False(t, last.AnySelected)
	assert.Equal(t, []OptionCount{{Value: "C", Count: 1}}, last.Options)
	assert.Equal(t, 1, e.Dataset().Len())
}

func TestEngineStateIsACopy(t *testing.T) {
	e := newTestEngine(t, exampleSchema, exampleDataset())
	e.SelectAt(0, "A")
	s := e.State()
	s.ResetAll()
	assert.True(t, e.AnySelected())
}

func TestViewNoMatch(t *testing.T) {
	assert.True(t, View{AnySelected: true}.NoMatch())
	assert.False(t, View{}.NoMatch())
}
