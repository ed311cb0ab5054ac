package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/facetnav/internal/facet"
	"github.com/oakwood-commons/facetnav/internal/tabular"
)

func press(m *Model, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func plain(m *Model) string {
	return ansi.Strip(m.Render())
}

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	downKey  = tea.KeyPressMsg{Code: tea.KeyDown}
	leftKey  = tea.KeyPressMsg{Code: tea.KeyLeft}
	escKey   = tea.KeyPressMsg{Code: tea.KeyEscape}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
)

func TestLoadingPhase(t *testing.T) {
	m := New(testOptions(t))
	assert.NotNil(t, m.Init())
	assert.False(t, m.Ready())
	assert.Contains(t, plain(m), "データを読み込み中...")

	assert.Nil(t, press(m, enterKey), "keys are ignored while loading")
	_, cmd := m.Update(SourceChangedMsg{})
	assert.Nil(t, cmd)
}

func TestInitialLoadFailureIsPermanent(t *testing.T) {
	opts := testOptions(t)
	opts.Load = failingLoad(errUnreachable)
	m := New(opts)
	m.Update(m.load()())

	require.ErrorIs(t, m.Err(), errUnreachable)
	assert.False(t, m.Ready())
	assert.Contains(t, plain(m), "データの読み込みエラー: HTTP 404: Not Found")

	m.Update(LoadedMsg{Dataset: tabular.Empty()})
	assert.False(t, m.Ready(), "a later load does not leave the error view")

	cmd := press(m, runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReadyShowsRootOptions(t *testing.T) {
	m := readyModel(t)
	assert.Equal(t, []string{"工具", "資材"}, optionValues(m))

	out := plain(m)
	assert.Contains(t, out, "[0] すべて")
	assert.Contains(t, out, "(5件)")
	assert.Contains(t, out, "(3件)")
	assert.Contains(t, out, "分類を選択してください。")
	assert.Equal(t, paneOptions, m.focus)
}

func TestSelectDrillsDown(t *testing.T) {
	m := readyModel(t)
	press(m, enterKey)

	assert.Equal(t, facet.FilterSet{{Column: "分類１", Value: "工具"}}, m.Engine().Filters())
	assert.Equal(t, []string{"手工具", "電動工具"}, optionValues(m))
	assert.Len(t, m.view.Results, 5)

	press(m, downKey, runeKey('l'))
	assert.Equal(t, []string{"インパクト", "ドリル"}, optionValues(m))
	assert.Len(t, m.view.Trail, 3)
	assert.Contains(t, plain(m), "T-300")
}

func TestLeafMovesFocusToResults(t *testing.T) {
	m := readyModel(t)
	press(m, enterKey, enterKey, enterKey)

	assert.Equal(t, -1, m.view.NextLevel)
	assert.Empty(t, m.view.Options)
	assert.Equal(t, paneResults, m.focus)
	assert.Len(t, m.view.Results, 1)

	// Enter in the results pane does nothing.
	press(m, enterKey)
	assert.Len(t, m.view.Trail, 4)
}

func TestBackAndTrailDigits(t *testing.T) {
	m := readyModel(t)
	press(m, enterKey, enterKey)
	require.Len(t, m.view.Trail, 3)

	press(m, leftKey)
	assert.Len(t, m.view.Trail, 2)

	press(m, enterKey)
	press(m, runeKey('1'))
	assert.Len(t, m.view.Trail, 2)
	assert.Equal(t, []string{"手工具", "電動工具"}, optionValues(m))

	press(m, runeKey('9'))
	assert.Len(t, m.view.Trail, 2, "digits past the trail are ignored")

	press(m, runeKey('0'))
	assert.False(t, m.view.AnySelected)

	press(m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.False(t, m.view.AnySelected, "back at the root is a no-op")
}

func TestResetAll(t *testing.T) {
	m := readyModel(t)
	press(m, enterKey, enterKey)
	press(m, runeKey('r'))
	assert.False(t, m.view.AnySelected)
	assert.Equal(t, []string{"工具", "資材"}, optionValues(m))
}

func TestTypeAheadFilter(t *testing.T) {
	m := readyModel(t)
	press(m, enterKey)

	press(m, runeKey('/'))
	require.True(t, m.filtering)
	press(m, runeKey('電'))
	assert.Equal(t, []string{"電動工具"}, optionValues(m))
	assert.Contains(t, plain(m), "/ 電")

	press(m, enterKey)
	assert.False(t, m.filtering)
	assert.Equal(t, facet.FilterSet{
		{Column: "分類１", Value: "工具"},
		{Column: "分類２", Value: "電動工具"},
	}, m.Engine().Filters())
	assert.Equal(t, "", m.options.Filter(), "a transition clears the filter")
}

func TestTypeAheadEscape(t *testing.T) {
	m := readyModel(t)
	press(m, runeKey('/'), runeKey('資'))
	assert.Equal(t, []string{"資材"}, optionValues(m))

	press(m, escKey)
	assert.False(t, m.filtering)
	assert.Equal(t, []string{"工具", "資材"}, optionValues(m))

	// q is literal text while filtering.
	press(m, runeKey('/'))
	press(m, runeKey('q'))
	assert.True(t, m.filtering)
	assert.Empty(t, optionValues(m))
}

func TestTabSwitchesPanes(t *testing.T) {
	m := readyModel(t)
	press(m, tabKey)
	assert.Equal(t, paneResults, m.focus)
	assert.True(t, m.results.Focused())
	assert.False(t, m.options.Focused())

	press(m, enterKey)
	assert.False(t, m.view.AnySelected, "select only acts on the options pane")

	press(m, runeKey('/'))
	assert.False(t, m.filtering, "filter only applies to the options pane")

	press(m, tabKey)
	assert.Equal(t, paneOptions, m.focus)
}

func TestReload(t *testing.T) {
	m := readyModel(t)
	press(m, enterKey)

	_, cmd := m.Update(SourceChangedMsg{})
	require.NotNil(t, cmd)

	m.Update(LoadedMsg{Err: errUnreachable})
	assert.Contains(t, m.Status(), "HTTP 404")
	assert.True(t, m.view.AnySelected, "a failed reload keeps the current data")
	assert.Contains(t, plain(m), "データの読み込みエラー")

	ds, _ := tabular.Parse("分類１,分類２,分類３,品番\n機械,旋盤,汎用,M-1\n", tabular.Options{})
	m.Update(LoadedMsg{Dataset: ds})
	assert.Empty(t, m.Status())
	assert.False(t, m.view.AnySelected)
	assert.Equal(t, []string{"機械"}, optionValues(m))
}

func TestEmptyDataset(t *testing.T) {
	m := readyModel(t, func(o *Options) { o.Load = loadText("") })
	assert.Empty(t, optionValues(m))
	assert.Contains(t, plain(m), "データがありません。")
}

func TestNoMatchMessage(t *testing.T) {
	m := readyModel(t)
	press(m, enterKey)
	m.Engine().SelectAt(1, "存在しない")
	assert.True(t, m.view.NoMatch())
	assert.Contains(t, plain(m), "該当する商品が見つかりませんでした。")
}

func TestPicksApplyAfterLoad(t *testing.T) {
	m := readyModel(t, func(o *Options) { o.Picks = []string{"資材", "ねじ"} })
	assert.Equal(t, []string{"六角ボルト", "小ねじ"}, optionValues(m))

	m = readyModel(t, func(o *Options) { o.Picks = []string{"資材", "存在しない"} })
	assert.Contains(t, m.Status(), "存在しない")
	assert.Len(t, m.view.Trail, 2)
}

func TestWindowSizeLayout(t *testing.T) {
	m := readyModel(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})

	lines := strings.Split(plain(m), "\n")
	assert.Len(t, lines, 12)
	for _, l := range lines[2:10] {
		assert.Equal(t, 60, ansi.StringWidth(l))
	}
}

func TestQuit(t *testing.T) {
	m := readyModel(t)
	cmd := press(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	cmd = press(m, runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m := readyModel(t)
	v := m.View()
	assert.True(t, v.AltScreen)
}
