package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/vocabquiz/internal/cli"
	"github.com/at-ishikawa/vocabquiz/internal/quiz"
	"github.com/at-ishikawa/vocabquiz/internal/vocabulary/source"
)

// OrderFlag selects how words are drawn. Empty keeps the configured order.
type OrderFlag quiz.Order

// Set implements pflag.Value.
func (o *OrderFlag) Set(v string) error {
	order, err := quiz.ParseOrder(v)
	if err != nil || v == "" {
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, quiz.OrderRandom, quiz.OrderShuffle)
	}
	*o = OrderFlag(order)
	return nil
}

// String implements pflag.Value.
func (o *OrderFlag) String() string {
	if o == nil {
		return ""
	}
	return string(*o)
}

// Type implements pflag.Value.
func (o *OrderFlag) Type() string {
	return "OrderFlag"
}

var (
	_ pflag.Value = (*OrderFlag)(nil)
)

func newQuizCommand() *cobra.Command {
	var orderFlag OrderFlag
	command := &cobra.Command{
		Use:   "quiz",
		Short: "Show a word and judge the meaning you type",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			openaiClient, err := newOpenAIClient(cfg.OpenAI)
			if err != nil {
				return err
			}
			defer func() {
				_ = openaiClient.Close()
			}()

			options, err := newSessionOptions(cfg.Quiz, quiz.Order(orderFlag))
			if err != nil {
				return err
			}

			items := source.LoadAll(cmd.Context(), cfg)
			if len(items) == 0 {
				return fmt.Errorf("no words in %s collection %q: %w", cfg.Vocabulary.Source, cfg.Vocabulary.Collection, quiz.ErrNoVocabulary)
			}

			session := quiz.NewSession(items, openaiClient, options...)
			quizCLI := cli.NewVocabQuizCLI(session, os.Stdin, cmd.OutOrStdout())

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d words (model: %s)\n", session.Len(), openaiClient.GetModel())
			quizCLI.PrintUsage()
			return cli.Run(cmd.Context(), cmd.OutOrStdout(), quizCLI)
		},
	}
	command.Flags().Var(&orderFlag, "order", "Order of words. Options: random, shuffle")
	return command
}
