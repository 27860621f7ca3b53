package adjacency

import "github.com/kailas-cloud/supportqa/internal/domain/searchctx"

var builtin = map[searchctx.Context]map[string][]string{
	searchctx.Default: {
		"予約方法":      {"インターネット予約", "web予約限定", "予約条件", "電話問い合わせ"},
		"インターネット予約": {"予約方法", "web予約限定"},
		"電話問い合わせ":   {"予約方法", "軽自動車枠"},
	},
	searchctx.InternationalNG: {
		"国際線制限":    {"利用不可", "出国", "帰国", "第3ターミナル", "国際線ターミナル"},
		"利用不可":     {"見送り不可", "迎え不可", "施設利用不可"},
		"予約分割不可":   {"併用不可", "国際線制限"},
		"国際線ターミナル": {"第3ターミナル", "施設利用不可"},
	},
	searchctx.VehiclesNG: {
		"車種制限":  {"輸入車不可", "高級車不可", "対象外車種", "寸法制限", "特殊車両不可", "マニュアル車不可"},
		"輸入車不可": {"車種制限", "高級車不可"},
		"高級車不可": {"車種制限", "輸入車不可"},
		"事前確認":  {"車種確認", "代替車両予約"},
		"国産車案内": {"代替車両予約", "車種確認"},
	},
	searchctx.ReservationRules: {
		"予約変更":   {"変更可能", "変更不可項目", "日程変更"},
		"予約条件":   {"仮押さえ不可", "分割予約不可", "時間制限"},
		"利用延長":   {"予約変更", "特例対応"},
		"変更可能":   {"予約変更", "日程変更"},
		"変更不可項目": {"予約変更", "予約条件"},
	},
	searchctx.Cancellation: {
		"キャンセル": {"手続き", "料金", "キャンセル料"},
		"手続き":   {"キャンセル", "キャンセル料"},
		"料金":    {"キャンセル", "キャンセル料"},
	},
	searchctx.FeeRules: {
		"料金":   {"深夜料金", "追加料金", "延長料金"},
		"深夜料金": {"料金", "追加料金"},
		"追加料金": {"料金", "深夜料金"},
	},
}

// Default returns the built-in product table.
func Default(opts ...Option) *Table {
	t, err := New(builtin, opts...)
	if err != nil {
		panic("adjacency: invalid built-in table: " + err.Error())
	}
	return t
}
