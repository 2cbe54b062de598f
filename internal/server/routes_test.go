package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_inference "github.com/at-ishikawa/vocabquiz/internal/mocks/inference"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

func newTestServer(t *testing.T, handler *QuizHandler) *httptest.Server {
	t.Helper()
	path, quizHandler := NewQuizServiceHandler(handler)
	mux := http.NewServeMux()
	mux.Handle(path, quizHandler)
	mux.Handle("/", IndexHandler())
	server := httptest.NewServer(CORSMiddleware(mux, []string{"http://localhost:3000"}))
	t.Cleanup(server.Close)
	return server
}

func TestQuizService_ConnectClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mock_inference.NewMockClient(ctrl)
	mockClient.EXPECT().Complete(gomock.Any(), gomock.Any()).Return("不正解\n抽象的すぎます", nil)
	server := newTestServer(t, newTestHandler(t, []vocabulary.Item{apple}, mockClient))

	start := connect.NewClient[StartSessionRequest, StartSessionResponse](
		server.Client(), server.URL+StartSessionProcedure, connect.WithCodec(jsonCodec{}),
	)
	submit := connect.NewClient[SubmitAnswerRequest, SubmitAnswerResponse](
		server.Client(), server.URL+SubmitAnswerProcedure, connect.WithCodec(jsonCodec{}),
	)

	started, err := start.CallUnary(context.Background(), connect.NewRequest(&StartSessionRequest{}))
	require.NoError(t, err)
	assert.Equal(t, &Word{Word: "apple"}, started.Msg.Session.Word)

	submitted, err := submit.CallUnary(context.Background(), connect.NewRequest(&SubmitAnswerRequest{
		SessionID: started.Msg.Session.SessionID,
		Answer:    "果物",
	}))
	require.NoError(t, err)
	assert.Equal(t, "❌ 不正解\n📝 抽象的すぎます", submitted.Msg.Feedback.Message)

	_, err = submit.CallUnary(context.Background(), connect.NewRequest(&SubmitAnswerRequest{
		SessionID: "3b241101-e2bb-4255-8caf-4136c566a962",
	}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestQuizService_PlainJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := newTestServer(t, newTestHandler(t, []vocabulary.Item{apple}, mock_inference.NewMockClient(ctrl)))

	resp, err := http.Post(server.URL+StartSessionProcedure, "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"word":{"word":"apple"}`)
	assert.NotContains(t, string(body), "りんご")
}

func TestIndexHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	server := newTestServer(t, newTestHandler(t, nil, mock_inference.NewMockClient(ctrl)))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "page", method: http.MethodGet, path: "/", wantStatus: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, path: "/favicon.ico", wantStatus: http.StatusNotFound},
		{name: "post", method: http.MethodPost, path: "/", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, nil)
			require.NoError(t, err)
			resp, err := server.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusOK {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "意味を入力...")
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORSMiddleware(next, []string{"http://localhost:3000"})

	tests := []struct {
		name            string
		method          string
		origin          string
		wantStatus      int
		wantAllowOrigin string
	}{
		{name: "allowed origin", method: http.MethodPost, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantAllowOrigin: "http://localhost:3000"},
		{name: "other origin", method: http.MethodPost, origin: "http://example.com", wantStatus: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:3000", wantStatus: http.StatusNoContent, wantAllowOrigin: "http://localhost:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAllowOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
