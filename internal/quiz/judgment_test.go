package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/vocabquiz/internal/inference"
)

func TestParseJudgment(t *testing.T) {
	tests := []struct {
		name        string
		reply       string
		want        Feedback
		wantMessage string
	}{
		{
			name:        "correct with reason",
			reply:       "正解\n意味が一致しています",
			want:        Feedback{Verdict: VerdictCorrect, Judgment: "正解", Reason: "意味が一致しています"},
			wantMessage: "✅ 正解\n📝 意味が一致しています",
		},
		{
			name:        "incorrect with blank lines and padding",
			reply:       "  不正解  \n\n 果物だけでは抽象的すぎます \n 具体的な名前が必要です\n",
			want:        Feedback{Verdict: VerdictIncorrect, Judgment: "不正解", Reason: "果物だけでは抽象的すぎます\n具体的な名前が必要です"},
			wantMessage: "❌ 不正解\n📝 果物だけでは抽象的すぎます\n具体的な名前が必要です",
		},
		{
			name:        "correct without reason",
			reply:       "正解",
			want:        Feedback{Verdict: VerdictCorrect, Judgment: "正解"},
			wantMessage: "✅ 正解\n📝 ",
		},
		{
			name:        "unknown first line",
			reply:       "わかりません",
			want:        Feedback{Verdict: VerdictUnparseable, Judgment: "わかりません"},
			wantMessage: "⚠️ 判定に失敗しました（AIの出力: わかりません）",
		},
		{
			name:        "token must be the whole line",
			reply:       "正解です\n理由",
			want:        Feedback{Verdict: VerdictUnparseable, Judgment: "正解です", Reason: "理由"},
			wantMessage: "⚠️ 判定に失敗しました（AIの出力: 正解です）",
		},
		{
			name:        "placeholder reply",
			reply:       inference.NoAnswer,
			want:        Feedback{Verdict: VerdictUnparseable, Judgment: inference.NoAnswer},
			wantMessage: "⚠️ 判定に失敗しました（AIの出力: (No answer)）",
		},
		{
			name:        "empty reply",
			reply:       " \n ",
			want:        Feedback{Verdict: VerdictUnparseable},
			wantMessage: "⚠️ 判定に失敗しました（AIの出力: ）",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseJudgment(tt.reply)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMessage, got.Message())
		})
	}
}

func TestFeedback_Message(t *testing.T) {
	assert.Equal(t, "", Feedback{}.Message())
	assert.Equal(t, "判定中...", Feedback{Verdict: VerdictPending}.Message())
}
