package main

import (
	"fmt"

	"github.com/at-ishikawa/vocabquiz/internal/config"
	"github.com/at-ishikawa/vocabquiz/internal/inference/openai"
	"github.com/at-ishikawa/vocabquiz/internal/quiz"
	"github.com/at-ishikawa/vocabquiz/internal/textmask"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newOpenAIClient(cfg config.OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	return openai.NewClient(cfg.APIKey, openai.Options{
		BaseURL:          cfg.BaseURL,
		Model:            cfg.Model,
		Temperature:      cfg.Temperature,
		MaxRetryAttempts: cfg.MaxRetryAttempts,
		Timeout:          cfg.Timeout,
	}), nil
}

func newSessionOptions(cfg config.QuizConfig, order quiz.Order) ([]quiz.Option, error) {
	if order == "" {
		parsed, err := quiz.ParseOrder(cfg.Order)
		if err != nil {
			return nil, fmt.Errorf("quiz.ParseOrder() > %w", err)
		}
		order = parsed
	}
	options := []quiz.Option{quiz.WithOrder(order)}
	if cfg.MaskHints {
		masker, err := textmask.New()
		if err != nil {
			return nil, fmt.Errorf("textmask.New() > %w", err)
		}
		options = append(options, quiz.WithMasker(masker))
	}
	return options, nil
}
