package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client sends a single prompt to a language model and returns its reply
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const (
	// NoAnswer is returned in place of a reply when the model response has no usable text
	NoAnswer = "(No answer)"

	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = float32(0.3)
)
