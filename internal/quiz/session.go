// Package quiz holds the state of a vocabulary quiz and the rules for judging answers and revealing hints.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/at-ishikawa/vocabquiz/internal/inference"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary"
)

var (
	ErrNoVocabulary   = errors.New("no vocabulary loaded")
	ErrNoCurrentItem  = errors.New("no word is being asked")
	ErrHintOutOfOrder = errors.New("hint phase out of order")
	// ErrStaleResult is returned when the word changed, or a newer result was applied, while the call was in flight
	ErrStaleResult = errors.New("result is stale")
)

// Masker removes the answer from generated hint text
type Masker interface {
	MaskWord(text string, word string) string
	MaskMeaning(text string, meaning string) string
}

type Option func(*Session)

func WithOrder(order Order) Option {
	return func(session *Session) {
		session.order = order
	}
}

func WithRand(random *rand.Rand) Option {
	return func(session *Session) {
		session.random = random
	}
}

func WithMasker(masker Masker) Option {
	return func(session *Session) {
		session.masker = masker
	}
}

// Session is one learner working through a word list. It is safe for concurrent use.
type Session struct {
	items  []vocabulary.Item
	client inference.Client
	masker Masker
	order  Order
	random *rand.Rand
	picker picker

	mu         sync.Mutex
	state      State
	generation uint64
	// checkSeq identifies the latest answer submission of the current word
	checkSeq uint64
	inFlight int
	// wordCtx is canceled when the word changes
	wordCtx    context.Context
	cancelWord context.CancelFunc
}

func NewSession(items []vocabulary.Item, client inference.Client, options ...Option) *Session {
	session := &Session{
		items:  items,
		client: client,
		order:  OrderRandom,
	}
	for _, option := range options {
		option(session)
	}
	if session.random == nil {
		session.random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	session.picker = newPicker(session.order, session.random)
	session.wordCtx, session.cancelWord = context.WithCancel(context.Background())
	return session
}

// Len returns the number of words in the list
func (session *Session) Len() int {
	return len(session.items)
}

// ShowNext draws the next word and resets the input, feedback and hints.
// Calls still in flight for the previous word are canceled and their results dropped.
func (session *Session) ShowNext() (vocabulary.Item, error) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if len(session.items) == 0 {
		return vocabulary.Item{}, ErrNoVocabulary
	}

	session.cancelWord()
	session.wordCtx, session.cancelWord = context.WithCancel(context.Background())

	item := session.items[session.picker.next(len(session.items))]
	session.generation++
	session.checkSeq = 0
	session.inFlight = 0
	session.state = State{
		Item:       &item,
		Generation: session.generation,
	}
	return item, nil
}

// State returns a snapshot of the session
func (session *Session) State() State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshot()
}

func (session *Session) snapshot() State {
	state := session.state
	if state.Item != nil {
		item := *state.Item
		state.Item = &item
	}
	return state
}

// CheckAnswer asks the model whether input matches the meaning of the current word.
// The latest submission for a word wins; earlier ones return ErrStaleResult when they finish.
func (session *Session) CheckAnswer(ctx context.Context, input string) (Feedback, error) {
	session.mu.Lock()
	if session.state.Item == nil {
		session.mu.Unlock()
		return Feedback{}, ErrNoCurrentItem
	}
	item := *session.state.Item
	generation := session.generation
	session.checkSeq++
	seq := session.checkSeq
	session.state.Input = input
	session.state.Feedback = Feedback{Verdict: VerdictPending}
	session.beginCall()
	callCtx, stop := session.callContext(ctx)
	session.mu.Unlock()
	defer stop()

	reply, err := session.complete(callCtx, JudgePrompt(item, input))

	session.mu.Lock()
	defer session.mu.Unlock()
	if generation != session.generation {
		return Feedback{}, ErrStaleResult
	}
	session.endCall()
	if seq != session.checkSeq {
		return Feedback{}, ErrStaleResult
	}
	if err != nil {
		session.state.Feedback = Feedback{}
		return Feedback{}, err
	}
	feedback := ParseJudgment(reply)
	session.state.Feedback = feedback
	return feedback, nil
}

// RevealHint advances the hint phase by one and returns the text of the new phase.
// The example sentence is revealed without calling the model.
func (session *Session) RevealHint(ctx context.Context, phase HintPhase) (string, error) {
	session.mu.Lock()
	if session.state.Item == nil {
		session.mu.Unlock()
		return "", ErrNoCurrentItem
	}
	if !phase.Valid() || phase != session.state.HintPhase+1 {
		current := session.state.HintPhase
		session.mu.Unlock()
		return "", fmt.Errorf("%w: requested %s after %s", ErrHintOutOfOrder, phase, current)
	}
	item := *session.state.Item
	if phase == HintExample {
		session.state.HintPhase = HintExample
		session.mu.Unlock()
		return item.Example, nil
	}
	generation := session.generation
	session.beginCall()
	callCtx, stop := session.callContext(ctx)
	session.mu.Unlock()
	defer stop()

	text, err := session.complete(callCtx, hintPrompt(phase, item.Word))
	if err == nil {
		text = session.mask(phase, text, item)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if generation != session.generation {
		return "", ErrStaleResult
	}
	session.endCall()
	if err != nil {
		return "", err
	}
	if session.state.HintPhase != phase-1 {
		return "", ErrStaleResult
	}
	switch phase {
	case HintSimpleEnglish:
		session.state.SimpleEnglishHint = text
	case HintParaphrase:
		session.state.ParaphraseHint = text
	}
	session.state.HintPhase = phase
	return text, nil
}

func (session *Session) mask(phase HintPhase, text string, item vocabulary.Item) string {
	if session.masker == nil || text == inference.NoAnswer {
		return text
	}
	if phase == HintSimpleEnglish {
		return session.masker.MaskWord(text, item.Word)
	}
	return session.masker.MaskMeaning(session.masker.MaskWord(text, item.Word), item.Meaning)
}

// beginCall and endCall must be called with mu held
func (session *Session) beginCall() {
	session.inFlight++
	session.state.Loading = true
}

func (session *Session) endCall() {
	session.inFlight--
	session.state.Loading = session.inFlight > 0
}

// callContext must be called with mu held.
// The returned context is canceled when either ctx is done or the word changes.
func (session *Session) callContext(ctx context.Context) (context.Context, func()) {
	callCtx, cancel := context.WithCancel(ctx)
	stopAfter := context.AfterFunc(session.wordCtx, cancel)
	return callCtx, func() {
		stopAfter()
		cancel()
	}
}

// complete degrades a failed completion to the placeholder reply.
// An error is returned only when ctx itself is done.
func (session *Session) complete(ctx context.Context, prompt string) (string, error) {
	reply, err := session.client.Complete(ctx, prompt)
	if err == nil {
		return reply, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("client.Complete() > %w", ctxErr)
	}
	slog.Default().Warn("completion failed, using placeholder reply", "error", err)
	return inference.NoAnswer, nil
}
