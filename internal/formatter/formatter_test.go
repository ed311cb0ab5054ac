package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{name: "fits", in: "T-100", maxLen: 5, want: "T-100"},
		{name: "ascii", in: "abcdefgh", maxLen: 6, want: "abc..."},
		{name: "wide", in: "電動工具セット", maxLen: 7, want: "電動..."},
		{name: "too short for ellipsis", in: "電動工具", maxLen: 2, want: "電"},
		{name: "no limit", in: "電動工具", maxLen: 0, want: "電動工具"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.maxLen))
		})
	}
}

func TestPadUsesDisplayWidth(t *testing.T) {
	assert.Equal(t, "品番  ", padRight("品番", 6))
	assert.Equal(t, "  品番", padLeft("品番", 6))
	assert.Equal(t, "ab", padRight("abcd", 2))
}

func TestRenderColumnarTable(t *testing.T) {
	out := RenderColumnarTable(
		[]string{"品番", "備考１"},
		[][]string{{"T-100", "磁石付"}, {"S-006", ""}},
		ColumnarOptions{NoColor: true, TotalWidth: 80},
	)
	want := strings.Join([]string{
		"#    品番   備考１",
		strings.Repeat("─", 18),
		"1    T-100  磁石付",
		"2    S-006",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestRenderColumnarTableNoRowNumbers(t *testing.T) {
	out := RenderColumnarTable([]string{"a", "b"}, [][]string{{"1", "2"}}, ColumnarOptions{NoColor: true, TotalWidth: 80, RowNumberStyle: "none"})
	assert.Equal(t, "a  b\n────\n1  2\n", out)
}

func TestRenderColumnarTableEmpty(t *testing.T) {
	assert.Equal(t, "", RenderColumnarTable(nil, [][]string{{"x"}}, ColumnarOptions{}))
	assert.Equal(t, "", RenderColumnarTable([]string{"a"}, nil, ColumnarOptions{}))
}

func TestCalculateColumnWidthsShrinksLowPriorityFirst(t *testing.T) {
	cols := []string{"level", "remark"}
	rows := [][]string{{"aaaaaaaaaa", "bbbbbbbbbb"}}
	got := calculateColumnWidths(cols, rows, 17, []ColumnHint{{Priority: 0}, {Priority: 1}})
	assert.Equal(t, []int{5, 10}, got)
}

func TestCalculateColumnWidthsProportional(t *testing.T) {
	cols := []string{"a", "b"}
	rows := [][]string{{strings.Repeat("x", 30), strings.Repeat("y", 10)}}
	got := calculateColumnWidths(cols, rows, 22, nil)
	assert.LessOrEqual(t, got[0]+got[1], 20)
	assert.Greater(t, got[0], got[1])
}

func TestCalculateColumnWidthsMaxWidthHint(t *testing.T) {
	got := calculateColumnWidths([]string{"a"}, [][]string{{strings.Repeat("x", 30)}}, 100, []ColumnHint{{MaxWidth: 12}})
	assert.Equal(t, []int{12}, got)
}
