package server

import (
	"fmt"

	"github.com/at-ishikawa/vocabquiz/internal/quiz"
)

type StartSessionRequest struct {
	// Order is random or shuffle. Empty uses the server default.
	Order string `json:"order,omitempty" validate:"omitempty,oneof=random shuffle"`
}

type StartSessionResponse struct {
	Session    Session `json:"session"`
	TotalWords int     `json:"totalWords"`
}

type NextWordRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

type NextWordResponse struct {
	Session Session `json:"session"`
}

type SubmitAnswerRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	Answer    string `json:"answer" validate:"max=200"`
}

type SubmitAnswerResponse struct {
	Feedback Feedback `json:"feedback"`
	Session  Session  `json:"session"`
}

type RevealHintRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
	Phase     int    `json:"phase" validate:"min=1,max=3"`
}

type RevealHintResponse struct {
	Hint    Hint    `json:"hint"`
	Session Session `json:"session"`
}

type GetSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

type GetSessionResponse struct {
	Session Session `json:"session"`
}

type Word struct {
	Word string `json:"word"`
}

type Feedback struct {
	Verdict  string `json:"verdict"`
	Judgment string `json:"judgment,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

type Hint struct {
	Phase int    `json:"phase"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Session is what a learner sees. The meaning never leaves the server.
type Session struct {
	SessionID  string   `json:"sessionId"`
	Generation uint64   `json:"generation"`
	Word       *Word    `json:"word,omitempty"`
	Input      string   `json:"input,omitempty"`
	Feedback   Feedback `json:"feedback"`
	HintPhase  int      `json:"hintPhase"`
	Hints      []Hint   `json:"hints"`
	// NextHintLabel is the label of the control revealing the next hint. Empty once every hint is shown.
	NextHintLabel string `json:"nextHintLabel,omitempty"`
	Loading       bool   `json:"loading"`
}

func toFeedback(feedback quiz.Feedback) Feedback {
	return Feedback{
		Verdict:  feedback.Verdict.String(),
		Judgment: feedback.Judgment,
		Reason:   feedback.Reason,
		Message:  feedback.Message(),
	}
}

func toHint(phase quiz.HintPhase, text string) Hint {
	return Hint{
		Phase: int(phase),
		Label: fmt.Sprintf("ヒント%d", int(phase)),
		Text:  text,
	}
}

func toSession(sessionID string, state quiz.State) Session {
	session := Session{
		SessionID:  sessionID,
		Generation: state.Generation,
		Input:      state.Input,
		Feedback:   toFeedback(state.Feedback),
		HintPhase:  int(state.HintPhase),
		Hints:      []Hint{},
		Loading:    state.Loading,
	}
	if state.Item != nil {
		session.Word = &Word{Word: state.Item.Word}
		session.NextHintLabel = (state.HintPhase + 1).ButtonLabel()
	}
	for phase := quiz.HintExample; phase <= state.HintPhase; phase++ {
		session.Hints = append(session.Hints, toHint(phase, state.Hint(phase)))
	}
	return session
}
