package facet

import (
	"github.com/oakwood-commons/facetnav/internal/tabular"
)

var exampleSchema = Schema{
	Levels:  []string{"分類１", "分類２"},
	Details: []Column{{Key: "品番", Label: "品番"}},
}

// exampleDataset is the three-row dataset used in the worked examples.
func exampleDataset() *tabular.Dataset {
	ds, _ := tabular.Parse("分類１,分類２,品番\nA,X,1\nA,Y,2\nB,X,3\n", tabular.Options{})
	return ds
}

var deepSchema = Schema{
	Levels: []string{"分類１", "分類２", "分類３", "分類４", "分類５", "分類６"},
	Details: []Column{
		{Key: "品番", Label: "品番"},
		{Key: "備考１", Label: "備考１"},
		{Key: "備考２", Label: "備考２"},
	},
}

func deepDataset() *tabular.Dataset {
	text := `分類１,分類２,分類３,分類４,分類５,分類６,品番,備考１,備考２
工具,手工具,レンチ,,,,T-100,,
工具,手工具,ドライバー,プラス,No.2,,T-200,磁石付,
工具,電動工具,ドリル,充電式,18V,本体のみ,T-300,,在庫僅少
工具,電動工具,ドリル,充電式,18V,セット,T-301,,
工具,電動工具,ドリル,充電式,14.4V,本体のみ,T-302,,
資材,ねじ,六角ボルト,M6,,,S-006,"亜鉛めっき, 10本",
資材,ねじ,六角ボルト,M8,,,S-008,,
資材,ねじ,小ねじ,M3,,,S-103,,
`
	ds, _ := tabular.Parse(text, tabular.Options{})
	return ds
}
