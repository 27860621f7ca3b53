package chat

import "regexp"

var carRewrites = []struct {
	pattern  *regexp.Regexp
	question string
}{
	{
		regexp.MustCompile(`(?i)(ベンツ|BMW|アウディ|ボルボ|プジョー|シトロエン|アストンマーチン|MINI|フォルクスワーゲン|テスラ|ポルシェ|ジャガー|ランドローバー)`),
		"外車は駐車できますか？",
	},
	{
		regexp.MustCompile(`(?i)(レクサス|FJクルーザー|ハイラックス|ランドクルーザー|プラド|グランドキャビン)`),
		"高級車（レクサスなど）は駐車できますか？",
	},
	{
		regexp.MustCompile(`(?i)(キャラバン|ハイエース|パジェロ|プレジデント|グランエース)`),
		"車の大きさに制限はありますか？",
	},
}

// RewriteCarQuery maps queries naming a specific car model onto the canonical
// vehicle-restriction question. Foreign brands win over luxury models, which win over large cars.
// Other queries are returned unchanged.
func RewriteCarQuery(query string) string {
	for _, r := range carRewrites {
		if r.pattern.MatchString(query) {
			return r.question
		}
	}
	return query
}
