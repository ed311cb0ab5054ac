package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/facetnav/internal/config"
	"github.com/oakwood-commons/facetnav/internal/facet"
	"github.com/oakwood-commons/facetnav/internal/tabular"
)

const productsCSV = `分類１,分類２,分類３,品番,備考１
工具,手工具,レンチ,T-100,
工具,手工具,ドライバー,T-200,磁石付
工具,電動工具,ドリル,T-300,在庫僅少
工具,電動工具,ドリル,T-301,
工具,電動工具,インパクト,T-302,
資材,ねじ,六角ボルト,S-006,
資材,ねじ,小ねじ,S-103,
資材,釘,丸釘,N-001,
`

var testSchema = facet.Schema{
	Levels: []string{"分類１", "分類２", "分類３"},
	Details: []facet.Column{
		{Key: "品番", Label: "品番"},
		{Key: "備考１", Label: "備考"},
	},
}

func loadText(text string) LoadFunc {
	return func(context.Context) (*tabular.Dataset, error) {
		ds, _ := tabular.Parse(text, tabular.Options{})
		return ds, nil
	}
}

func failingLoad(err error) LoadFunc {
	return func(context.Context) (*tabular.Dataset, error) {
		return nil, err
	}
}

var errUnreachable = errors.New("HTTP 404: Not Found")

func testOptions(t *testing.T) Options {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return Options{
		AppName:    "facetnav",
		Source:     "商品マスタ.csv",
		Schema:     testSchema,
		Messages:   cfg.Messages,
		Theme:      cfg.Display.Theme,
		NoColor:    true,
		ShowCounts: true,
		Load:       loadText(productsCSV),
	}
}

// readyModel returns a model that has completed its initial load.
func readyModel(t *testing.T, mutate ...func(*Options)) *Model {
	t.Helper()
	opts := testOptions(t)
	for _, fn := range mutate {
		fn(&opts)
	}
	m := New(opts)
	m.Update(m.load()())
	require.True(t, m.Ready(), "model should be ready, err=%v", m.Err())
	return m
}

func optionValues(m *Model) []string {
	var out []string
	for _, o := range m.options.Rows() {
		out = append(out, o.Value)
	}
	return out
}
