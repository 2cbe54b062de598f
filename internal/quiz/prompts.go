package quiz

import (
	"fmt"

	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

const judgePromptTemplate = `英単語 "%s" の正しい日本語の意味は「%s」です。
ユーザーの入力は「%s」です。

次のルールに従って、「正解」または「不正解」を判定してください：
- 全体の意味の一部であれば正解としてください
- 表記が多少異なっていても、意味が同じであれば正解としてください（例：「十一」と「11」、「計画」と「プラン」、「正直」と「正直な人」など）
- 同義語、言い換え、定義的な表現も意味が通じるなら正解
- ただし、意味が異なる場合や、非常に抽象的すぎる表現（例：「もの」「道具」「果物」など）だけでは不正解
- 出力形式：1行目：「正解」または「不正解」、2行目以降：その理由を簡潔に説明（ユーザーが納得できるように）`

// JudgePrompt asks the model to grade input against the canonical meaning of item
func JudgePrompt(item vocabulary.Item, input string) string {
	return fmt.Sprintf(judgePromptTemplate, item.Word, item.Meaning, input)
}

// SimpleEnglishHintPrompt asks for an explanation in junior-high English without the word itself
func SimpleEnglishHintPrompt(word string) string {
	return fmt.Sprintf(`あなたは英単語学習アプリのAIです。次の単語の意味を、正解の日本語訳を出さずに、中学校レベルの簡単な英単語だけを使って英語で説明してください。単語自体は使わないでください。単語: "%s"`, word)
}

// ParaphraseHintPrompt asks for a gentle Japanese explanation that omits the answer
func ParaphraseHintPrompt(word string) string {
	return fmt.Sprintf(`単語 "%s" の意味を、日本語でやさしく、連想できるように説明してください。ただし正解そのものは含めないでください。`, word)
}

func hintPrompt(phase HintPhase, word string) string {
	if phase == HintSimpleEnglish {
		return SimpleEnglishHintPrompt(word)
	}
	return ParaphraseHintPrompt(word)
}
