package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/vocabquiz/internal/inference"
	mock_inference "github.com/at-ishikawa/vocabquiz/internal/mocks/inference"
	"github.com/at-ishikawa/vocabquiz/internal/quiz"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

var apple = vocabulary.Item{Word: "apple", Meaning: "りんご", Example: "I ate an apple."}

func newTestHandler(t *testing.T, items []vocabulary.Item, openaiClient inference.Client) *QuizHandler {
	t.Helper()
	handler, err := NewQuizHandler(items, openaiClient, NewSessionStore(time.Hour), Options{})
	require.NoError(t, err)
	return handler
}

func requireConnectCode(t *testing.T, err error, want connect.Code) *connect.Error {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Equal(t, want, connectErr.Code())
	return connectErr
}

func startSession(t *testing.T, handler *QuizHandler) string {
	t.Helper()
	resp, err := handler.StartSession(context.Background(), connect.NewRequest(&StartSessionRequest{}))
	require.NoError(t, err)
	return resp.Msg.Session.SessionID
}

func TestQuizHandler_StartSession(t *testing.T) {
	tests := []struct {
		name     string
		items    []vocabulary.Item
		order    string
		wantCode connect.Code
		wantErr  bool
	}{
		{
			name:  "draws the first word",
			items: []vocabulary.Item{apple},
		},
		{
			name:  "shuffle order",
			items: []vocabulary.Item{apple},
			order: "shuffle",
		},
		{
			name:     "returns INVALID_ARGUMENT for an unknown order",
			items:    []vocabulary.Item{apple},
			order:    "alphabetical",
			wantCode: connect.CodeInvalidArgument,
			wantErr:  true,
		},
		{
			name:     "returns FAILED_PRECONDITION without vocabulary",
			wantCode: connect.CodeFailedPrecondition,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			handler := newTestHandler(t, tt.items, mock_inference.NewMockClient(ctrl))

			resp, err := handler.StartSession(context.Background(), connect.NewRequest(&StartSessionRequest{Order: tt.order}))
			if tt.wantErr {
				assert.Nil(t, resp)
				requireConnectCode(t, err, tt.wantCode)
				assert.Equal(t, 0, handler.store.Len())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, Session{
				SessionID:     resp.Msg.Session.SessionID,
				Generation:    1,
				Word:          &Word{Word: "apple"},
				Feedback:      Feedback{Verdict: "none"},
				Hints:         []Hint{},
				NextHintLabel: "ヒント1（例文）",
			}, resp.Msg.Session)
			assert.Equal(t, 1, resp.Msg.TotalWords)
			assert.Equal(t, 1, handler.store.Len())
		})
	}
}

func TestQuizHandler_StartSession_InvalidArgumentDetail(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := newTestHandler(t, []vocabulary.Item{apple}, mock_inference.NewMockClient(ctrl))

	_, err := handler.StartSession(context.Background(), connect.NewRequest(&StartSessionRequest{Order: "alphabetical"}))
	connectErr := requireConnectCode(t, err, connect.CodeInvalidArgument)

	require.Len(t, connectErr.Details(), 1)
	value, err := connectErr.Details()[0].Value()
	require.NoError(t, err)
	badRequest, ok := value.(*errdetails.BadRequest)
	require.True(t, ok)
	require.Len(t, badRequest.GetFieldViolations(), 1)
	assert.Equal(t, "order", badRequest.GetFieldViolations()[0].GetField())
	assert.Equal(t, "order must be one of [random shuffle]", badRequest.GetFieldViolations()[0].GetDescription())
}

func TestQuizHandler_SessionLookup(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		wantCode  connect.Code
	}{
		{
			name:      "returns INVALID_ARGUMENT for an empty session id",
			sessionID: "",
			wantCode:  connect.CodeInvalidArgument,
		},
		{
			name:      "returns INVALID_ARGUMENT for a malformed session id",
			sessionID: "session-1",
			wantCode:  connect.CodeInvalidArgument,
		},
		{
			name:      "returns NOT_FOUND for an unknown session",
			sessionID: "3b241101-e2bb-4255-8caf-4136c566a962",
			wantCode:  connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			handler := newTestHandler(t, []vocabulary.Item{apple}, mock_inference.NewMockClient(ctrl))

			_, err := handler.NextWord(context.Background(), connect.NewRequest(&NextWordRequest{SessionID: tt.sessionID}))
			requireConnectCode(t, err, tt.wantCode)
			_, err = handler.SubmitAnswer(context.Background(), connect.NewRequest(&SubmitAnswerRequest{SessionID: tt.sessionID, Answer: "りんご"}))
			requireConnectCode(t, err, tt.wantCode)
			_, err = handler.RevealHint(context.Background(), connect.NewRequest(&RevealHintRequest{SessionID: tt.sessionID, Phase: 1}))
			requireConnectCode(t, err, tt.wantCode)
			_, err = handler.GetSession(context.Background(), connect.NewRequest(&GetSessionRequest{SessionID: tt.sessionID}))
			requireConnectCode(t, err, tt.wantCode)
		})
	}
}

func TestQuizHandler_SubmitAnswer(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  Feedback
	}{
		{
			name:  "correct",
			reply: "正解\n意味が一致しています",
			want: Feedback{
				Verdict:  "correct",
				Judgment: "正解",
				Reason:   "意味が一致しています",
				Message:  "✅ 正解\n📝 意味が一致しています",
			},
		},
		{
			name:  "unparseable",
			reply: "わかりません",
			want: Feedback{
				Verdict:  "unparseable",
				Judgment: "わかりません",
				Message:  "⚠️ 判定に失敗しました（AIの出力: わかりません）",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockClient := mock_inference.NewMockClient(ctrl)
			mockClient.EXPECT().Complete(gomock.Any(), quiz.JudgePrompt(apple, "りんご")).Return(tt.reply, nil)
			handler := newTestHandler(t, []vocabulary.Item{apple}, mockClient)
			sessionID := startSession(t, handler)

			resp, err := handler.SubmitAnswer(context.Background(), connect.NewRequest(&SubmitAnswerRequest{
				SessionID: sessionID,
				Answer:    "りんご",
			}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Msg.Feedback)
			assert.Equal(t, tt.want, resp.Msg.Session.Feedback)
			assert.Equal(t, "りんご", resp.Msg.Session.Input)
			assert.False(t, resp.Msg.Session.Loading)
		})
	}
}

func TestQuizHandler_RevealHint(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mock_inference.NewMockClient(ctrl)
	handler := newTestHandler(t, []vocabulary.Item{apple}, mockClient)
	sessionID := startSession(t, handler)

	_, err := handler.RevealHint(context.Background(), connect.NewRequest(&RevealHintRequest{SessionID: sessionID, Phase: 2}))
	requireConnectCode(t, err, connect.CodeFailedPrecondition)

	resp, err := handler.RevealHint(context.Background(), connect.NewRequest(&RevealHintRequest{SessionID: sessionID, Phase: 1}))
	require.NoError(t, err)
	assert.Equal(t, Hint{Phase: 1, Label: "ヒント1", Text: "I ate an apple."}, resp.Msg.Hint)

	mockClient.EXPECT().
		Complete(gomock.Any(), quiz.SimpleEnglishHintPrompt("apple")).
		Return("A round fruit.", nil)
	resp, err = handler.RevealHint(context.Background(), connect.NewRequest(&RevealHintRequest{SessionID: sessionID, Phase: 2}))
	require.NoError(t, err)
	assert.Equal(t, Hint{Phase: 2, Label: "ヒント2", Text: "A round fruit."}, resp.Msg.Hint)
	assert.Equal(t, []Hint{
		{Phase: 1, Label: "ヒント1", Text: "I ate an apple."},
		{Phase: 2, Label: "ヒント2", Text: "A round fruit."},
	}, resp.Msg.Session.Hints)
	assert.Equal(t, 2, resp.Msg.Session.HintPhase)
	assert.Equal(t, "ヒント3（やさしい説明）", resp.Msg.Session.NextHintLabel)

	_, err = handler.RevealHint(context.Background(), connect.NewRequest(&RevealHintRequest{SessionID: sessionID, Phase: 4}))
	requireConnectCode(t, err, connect.CodeInvalidArgument)
}

func TestQuizHandler_NextWord(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := newTestHandler(t, []vocabulary.Item{apple}, mock_inference.NewMockClient(ctrl))
	sessionID := startSession(t, handler)

	_, err := handler.RevealHint(context.Background(), connect.NewRequest(&RevealHintRequest{SessionID: sessionID, Phase: 1}))
	require.NoError(t, err)

	resp, err := handler.NextWord(context.Background(), connect.NewRequest(&NextWordRequest{SessionID: sessionID}))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), resp.Msg.Session.Generation)
	assert.Equal(t, 0, resp.Msg.Session.HintPhase)
	assert.Empty(t, resp.Msg.Session.Hints)
	assert.Equal(t, "ヒント1（例文）", resp.Msg.Session.NextHintLabel)

	got, err := handler.GetSession(context.Background(), connect.NewRequest(&GetSessionRequest{SessionID: sessionID}))
	require.NoError(t, err)
	assert.Equal(t, resp.Msg.Session, got.Msg.Session)
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want connect.Code
	}{
		{err: quiz.ErrNoVocabulary, want: connect.CodeFailedPrecondition},
		{err: quiz.ErrNoCurrentItem, want: connect.CodeFailedPrecondition},
		{err: quiz.ErrHintOutOfOrder, want: connect.CodeFailedPrecondition},
		{err: quiz.ErrStaleResult, want: connect.CodeAborted},
		{err: context.Canceled, want: connect.CodeCanceled},
		{err: errors.New("boom"), want: connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, toConnectError(tt.err).Code())
		})
	}
}
