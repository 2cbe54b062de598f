package quiz

import (
	"strings"
)

// ParseJudgment turns a model reply into feedback.
// The first non-empty trimmed line must be exactly 正解 or 不正解.
func ParseJudgment(reply string) Feedback {
	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	var feedback Feedback
	if len(lines) > 0 {
		feedback.Judgment = lines[0]
		feedback.Reason = strings.Join(lines[1:], "\n")
	}
	switch feedback.Judgment {
	case VerdictTokenCorrect:
		feedback.Verdict = VerdictCorrect
	case VerdictTokenIncorrect:
		feedback.Verdict = VerdictIncorrect
	default:
		feedback.Verdict = VerdictUnparseable
	}
	return feedback
}
