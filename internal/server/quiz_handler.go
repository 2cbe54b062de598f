// Package server provides Connect RPC handlers for the quiz service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"golang.org/x/sync/singleflight"

	"github.com/at-ishikawa/vocabquiz/internal/inference"
	"github.com/at-ishikawa/vocabquiz/internal/quiz"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

const (
	QuizServiceName = "vocabquiz.v1.QuizService"

	StartSessionProcedure = "/" + QuizServiceName + "/StartSession"
	NextWordProcedure     = "/" + QuizServiceName + "/NextWord"
	SubmitAnswerProcedure = "/" + QuizServiceName + "/SubmitAnswer"
	RevealHintProcedure   = "/" + QuizServiceName + "/RevealHint"
	GetSessionProcedure   = "/" + QuizServiceName + "/GetSession"
)

type Options struct {
	// DefaultOrder is used when StartSession does not name an order
	DefaultOrder quiz.Order
	// Masker removes the answer from hints when set
	Masker quiz.Masker
}

// QuizHandler serves quiz sessions over one shared word list
type QuizHandler struct {
	items        []vocabulary.Item
	openaiClient inference.Client
	options      Options
	store        *SessionStore
	validator    *requestValidator
	hints        singleflight.Group
}

func NewQuizHandler(items []vocabulary.Item, openaiClient inference.Client, store *SessionStore, options Options) (*QuizHandler, error) {
	v, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("newRequestValidator() > %w", err)
	}
	if options.DefaultOrder == "" {
		options.DefaultOrder = quiz.OrderRandom
	}
	return &QuizHandler{
		items:        items,
		openaiClient: openaiClient,
		options:      options,
		store:        store,
		validator:    v,
	}, nil
}

// NewQuizServiceHandler returns the path prefix and handler of every quiz procedure
func NewQuizServiceHandler(h *QuizHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(StartSessionProcedure, connect.NewUnaryHandler(StartSessionProcedure, h.StartSession, opts...))
	mux.Handle(NextWordProcedure, connect.NewUnaryHandler(NextWordProcedure, h.NextWord, opts...))
	mux.Handle(SubmitAnswerProcedure, connect.NewUnaryHandler(SubmitAnswerProcedure, h.SubmitAnswer, opts...))
	mux.Handle(RevealHintProcedure, connect.NewUnaryHandler(RevealHintProcedure, h.RevealHint, opts...))
	mux.Handle(GetSessionProcedure, connect.NewUnaryHandler(GetSessionProcedure, h.GetSession, opts...))
	return "/" + QuizServiceName + "/", mux
}

// StartSession creates a session and draws its first word
func (h *QuizHandler) StartSession(
	ctx context.Context,
	req *connect.Request[StartSessionRequest],
) (*connect.Response[StartSessionResponse], error) {
	if err := h.validator.validateRequest(req.Msg); err != nil {
		return nil, err
	}

	order := h.options.DefaultOrder
	if req.Msg.Order != "" {
		order = quiz.Order(req.Msg.Order)
	}
	sessionOptions := []quiz.Option{quiz.WithOrder(order)}
	if h.options.Masker != nil {
		sessionOptions = append(sessionOptions, quiz.WithMasker(h.options.Masker))
	}

	session := quiz.NewSession(h.items, h.openaiClient, sessionOptions...)
	if _, err := session.ShowNext(); err != nil {
		return nil, toConnectError(err)
	}
	id := h.store.Add(session)
	slog.Default().Debug("started quiz session", "session_id", id, "order", order)

	return connect.NewResponse(&StartSessionResponse{
		Session:    toSession(id, session.State()),
		TotalWords: session.Len(),
	}), nil
}

// NextWord moves the session to another word
func (h *QuizHandler) NextWord(
	ctx context.Context,
	req *connect.Request[NextWordRequest],
) (*connect.Response[NextWordResponse], error) {
	session, err := h.session(req.Msg)
	if err != nil {
		return nil, err
	}
	if _, err := session.ShowNext(); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&NextWordResponse{
		Session: toSession(req.Msg.SessionID, session.State()),
	}), nil
}

// SubmitAnswer judges the answer for the current word
func (h *QuizHandler) SubmitAnswer(
	ctx context.Context,
	req *connect.Request[SubmitAnswerRequest],
) (*connect.Response[SubmitAnswerResponse], error) {
	session, err := h.session(req.Msg)
	if err != nil {
		return nil, err
	}
	feedback, err := session.CheckAnswer(ctx, req.Msg.Answer)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&SubmitAnswerResponse{
		Feedback: toFeedback(feedback),
		Session:  toSession(req.Msg.SessionID, session.State()),
	}), nil
}

// RevealHint reveals the next hint. Concurrent requests for the same hint share one completion call.
func (h *QuizHandler) RevealHint(
	ctx context.Context,
	req *connect.Request[RevealHintRequest],
) (*connect.Response[RevealHintResponse], error) {
	session, err := h.session(req.Msg)
	if err != nil {
		return nil, err
	}

	phase := quiz.HintPhase(req.Msg.Phase)
	key := fmt.Sprintf("%s/%d/%d", req.Msg.SessionID, session.State().Generation, phase)
	text, err, shared := h.hints.Do(key, func() (any, error) {
		return session.RevealHint(context.WithoutCancel(ctx), phase)
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	if shared {
		slog.Default().Debug("shared hint result", "session_id", req.Msg.SessionID, "phase", phase)
	}

	return connect.NewResponse(&RevealHintResponse{
		Hint:    toHint(phase, text.(string)),
		Session: toSession(req.Msg.SessionID, session.State()),
	}), nil
}

// GetSession returns the current state of a session
func (h *QuizHandler) GetSession(
	ctx context.Context,
	req *connect.Request[GetSessionRequest],
) (*connect.Response[GetSessionResponse], error) {
	session, err := h.session(req.Msg)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetSessionResponse{
		Session: toSession(req.Msg.SessionID, session.State()),
	}), nil
}

type sessionRequest interface {
	sessionID() string
}

func (r *NextWordRequest) sessionID() string     { return r.SessionID }
func (r *SubmitAnswerRequest) sessionID() string { return r.SessionID }
func (r *RevealHintRequest) sessionID() string   { return r.SessionID }
func (r *GetSessionRequest) sessionID() string   { return r.SessionID }

func (h *QuizHandler) session(msg sessionRequest) (*quiz.Session, error) {
	if err := h.validator.validateRequest(msg); err != nil {
		return nil, err
	}
	session, ok := h.store.Get(msg.sessionID())
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("session %q not found", msg.sessionID()))
	}
	return session, nil
}

func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, quiz.ErrNoVocabulary),
		errors.Is(err, quiz.ErrNoCurrentItem),
		errors.Is(err, quiz.ErrHintOutOfOrder):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, quiz.ErrStaleResult):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
