package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/vocabquiz/internal/quiz"
)

const (
	commandHint = ":h"
	commandNext = ":n"
	commandQuit = ":q"
)

// VocabQuizCLI asks one word per round on a terminal
type VocabQuizCLI struct {
	session      *quiz.Session
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
}

func NewVocabQuizCLI(session *quiz.Session, stdin io.Reader, stdout io.Writer) *VocabQuizCLI {
	return &VocabQuizCLI{
		session:      session,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

// PrintUsage explains the commands accepted at the prompt
func (cli *VocabQuizCLI) PrintUsage() {
	_, _ = fmt.Fprintf(cli.stdoutWriter, "Type the meaning in Japanese. %s: hint, %s: next word, %s: quit\n", commandHint, commandNext, commandQuit)
}

// Session presents one word and handles input until the learner moves on
func (cli *VocabQuizCLI) Session(ctx context.Context) error {
	item, err := cli.session.ShowNext()
	if err != nil {
		return fmt.Errorf("session.ShowNext() > %w", err)
	}
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "\n単語: %s\n", item.Word)

	for {
		_, _ = fmt.Fprint(cli.stdoutWriter, "> ")
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errEnd
			}
			return fmt.Errorf("stdinReader.ReadString() > %w", err)
		}

		switch input := strings.TrimSpace(line); input {
		case commandQuit, "quit", "exit":
			return errEnd
		case commandNext:
			return nil
		case commandHint:
			if err := cli.revealHint(ctx); err != nil {
				return err
			}
		case "":
			continue
		default:
			if err := cli.checkAnswer(ctx, input); err != nil {
				return err
			}
		}
	}
}

func (cli *VocabQuizCLI) checkAnswer(ctx context.Context, input string) error {
	_, _ = cli.italic.Fprintln(cli.stdoutWriter, quiz.Feedback{Verdict: quiz.VerdictPending}.Message())
	feedback, err := cli.session.CheckAnswer(ctx, input)
	if err != nil {
		if errors.Is(err, quiz.ErrStaleResult) {
			return nil
		}
		return fmt.Errorf("session.CheckAnswer() > %w", err)
	}

	switch feedback.Verdict {
	case quiz.VerdictCorrect:
		_, _ = cli.green.Fprintln(cli.stdoutWriter, feedback.Message())
	case quiz.VerdictIncorrect:
		_, _ = cli.red.Fprintln(cli.stdoutWriter, feedback.Message())
	default:
		_, _ = fmt.Fprintln(cli.stdoutWriter, feedback.Message())
	}
	return nil
}

func (cli *VocabQuizCLI) revealHint(ctx context.Context) error {
	phase := cli.session.State().HintPhase + 1
	if phase > quiz.HintParaphrase {
		_, _ = fmt.Fprintln(cli.stdoutWriter, "No more hints.")
		return nil
	}

	text, err := cli.session.RevealHint(ctx, phase)
	if err != nil {
		if errors.Is(err, quiz.ErrHintOutOfOrder) || errors.Is(err, quiz.ErrStaleResult) {
			slog.Default().Debug("hint skipped", "phase", phase, "error", err)
			return nil
		}
		return fmt.Errorf("session.RevealHint() > %w", err)
	}
	_, _ = fmt.Fprintf(cli.stdoutWriter, "%s: %s\n", cli.bold.Sprintf("ヒント%d", int(phase)), text)
	return nil
}
