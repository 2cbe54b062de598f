package quiz

import (
	"fmt"

	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

// HintPhase is how many hints have been revealed for the current word
type HintPhase int

const (
	HintNone HintPhase = iota
	// HintExample reveals the stored example sentence
	HintExample
	// HintSimpleEnglish reveals an explanation in simple English
	HintSimpleEnglish
	// HintParaphrase reveals a Japanese paraphrase that avoids the answer
	HintParaphrase
)

func (phase HintPhase) String() string {
	switch phase {
	case HintNone:
		return "none"
	case HintExample:
		return "example"
	case HintSimpleEnglish:
		return "simple_english"
	case HintParaphrase:
		return "paraphrase"
	}
	return fmt.Sprintf("HintPhase(%d)", int(phase))
}

func (phase HintPhase) Valid() bool {
	return phase >= HintNone && phase <= HintParaphrase
}

// ButtonLabel is the label of the control that reveals phase
func (phase HintPhase) ButtonLabel() string {
	switch phase {
	case HintExample:
		return "ヒント1（例文）"
	case HintSimpleEnglish:
		return "ヒント2（簡単な英語）"
	case HintParaphrase:
		return "ヒント3（やさしい説明）"
	}
	return ""
}

type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictPending
	VerdictCorrect
	VerdictIncorrect
	VerdictUnparseable
)

func (verdict Verdict) String() string {
	switch verdict {
	case VerdictNone:
		return "none"
	case VerdictPending:
		return "pending"
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	case VerdictUnparseable:
		return "unparseable"
	}
	return fmt.Sprintf("Verdict(%d)", int(verdict))
}

const (
	VerdictTokenCorrect   = "正解"
	VerdictTokenIncorrect = "不正解"

	pendingMessage = "判定中..."
)

// Feedback is the parsed result of a judged answer
type Feedback struct {
	Verdict Verdict
	// Judgment is the first non-empty line of the reply
	Judgment string
	// Reason is the rest of the reply joined with newlines
	Reason string
}

// Message renders the feedback the way it is displayed to the learner
func (feedback Feedback) Message() string {
	switch feedback.Verdict {
	case VerdictPending:
		return pendingMessage
	case VerdictCorrect:
		return fmt.Sprintf("✅ %s\n📝 %s", feedback.Judgment, feedback.Reason)
	case VerdictIncorrect:
		return fmt.Sprintf("❌ %s\n📝 %s", feedback.Judgment, feedback.Reason)
	case VerdictUnparseable:
		return fmt.Sprintf("⚠️ 判定に失敗しました（AIの出力: %s）", feedback.Judgment)
	}
	return ""
}

// State is a snapshot of a quiz session.
// Everything except Generation is reset when the word changes.
type State struct {
	Item              *vocabulary.Item
	Input             string
	Feedback          Feedback
	HintPhase         HintPhase
	SimpleEnglishHint string
	ParaphraseHint    string
	Loading           bool
	Generation        uint64
}

// Hint returns the text revealed for phase, or an empty string if that phase is not revealed yet
func (state State) Hint(phase HintPhase) string {
	if state.Item == nil || phase == HintNone || phase > state.HintPhase {
		return ""
	}
	switch phase {
	case HintExample:
		return state.Item.Example
	case HintSimpleEnglish:
		return state.SimpleEnglishHint
	case HintParaphrase:
		return state.ParaphraseHint
	}
	return ""
}
