package chat

import (
	"strings"

	domknow "github.com/kailas-cloud/supportqa/internal/domain/knowledge"
)

const (
	greetingLine = "お問い合わせいただきありがとうございます。"
	closingLine  = "その他ご不明な点がございましたら、お気軽にお問い合わせください。"
	// FallbackAnswer is what the model is told to say when the context lacks the answer.
	FallbackAnswer = "申し訳ありませんが、その情報は提供できません"
)

// contextBlock joins record answers with newlines.
func contextBlock(records []domknow.Record) string {
	answers := make([]string, len(records))
	for i := range records {
		answers[i] = records[i].Answer()
	}
	return strings.Join(answers, "\n")
}

func answerSystemPrompt(context string) string {
	var b strings.Builder
	b.WriteString("あなたは駐車場サービスのカスタマーサポート担当者です。以下のルールに従って日本語で回答してください。\n")
	b.WriteString("1. 回答の最初の行は必ず「" + greetingLine + "」としてください。\n")
	b.WriteString("2. 以下の情報に書かれている内容だけを使い、推測や補足はしないでください。")
	b.WriteString("情報に含まれていない内容については「" + FallbackAnswer + "」と回答してください。\n")
	b.WriteString("3. 手順や条件など列挙できる内容は「・」で始まる箇条書きにしてください。\n")
	b.WriteString("4. 回答の最後の行は必ず「" + closingLine + "」としてください。\n\n")
	b.WriteString("情報:\n")
	b.WriteString(context)
	return b.String()
}

const suggestUserPrompt = "関連質問を3つ生成してください。"

func suggestSystemPrompt(context, query string) string {
	var b strings.Builder
	b.WriteString("以下の文脈と質問を参考に、ユーザーが次に尋ねそうな関連質問を3つ生成してください。\n")
	b.WriteString(`質問はJSON形式の配列で返してください。例: ["質問1", "質問2", "質問3"]`)
	b.WriteString("\n\n文脈:\n")
	b.WriteString(context)
	b.WriteString("\n\n元の質問: ")
	b.WriteString(query)
	return b.String()
}
