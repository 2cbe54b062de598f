package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/vocabquiz/internal/inference"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Options struct {
	BaseURL          string
	Model            string
	Temperature      float32
	MaxRetryAttempts uint
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration
}

type Client struct {
	httpClient       *resty.Client
	model            string
	temperature      float32
	maxRetryAttempts uint
}

func NewClient(apiKey string, options Options) *Client {
	if options.BaseURL == "" {
		options.BaseURL = DefaultBaseURL
	}
	if options.Model == "" {
		options.Model = inference.DefaultModel
	}

	client := resty.New()
	client.SetBaseURL(options.BaseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")
	if options.Timeout > 0 {
		client.SetTimeout(options.Timeout)
	}

	return &Client{
		httpClient:       client,
		model:            options.Model,
		temperature:      options.Temperature,
		maxRetryAttempts: options.MaxRetryAttempts,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const RoleUser Role = "user"

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// statusError is returned for a non-2xx response
type statusError struct {
	statusCode int
	body       string
}

func (err *statusError) Error() string {
	return fmt.Sprintf("response error %d: %s", err.statusCode, err.body)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	// Retry on 5xx errors (server errors) and rate limiting (429)
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.statusCode >= 500 || statusErr.statusCode == 429
	}

	// Retry on network-related errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout")
}

// Complete implements the inference.Client interface.
// It returns inference.NoAnswer when the response has no usable content.
func (client *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var result string
	if err := retry.Do(
		func() error {
			content, err := client.complete(ctx, prompt)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				slog.Default().Info("Retrying OpenAI API call", "error", err)
				return err
			}
			result = content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) complete(ctx context.Context, prompt string) (string, error) {
	requestBody := ChatCompletionRequest{
		Model:       client.model,
		Temperature: client.temperature,
		Messages: []Message{
			{Role: RoleUser, Content: prompt},
		},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", &statusError{statusCode: response.StatusCode(), body: response.String()}
	}

	content, ok := parseContent(response.Bytes())
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", response.String(),
	)
	if !ok {
		slog.Default().Warn("OpenAI response has no usable content", "body", response.String())
		return inference.NoAnswer, nil
	}
	return content, nil
}

// parseContent extracts choices[0].message.content trimmed of surrounding whitespace
func parseContent(body []byte) (string, bool) {
	var decoded ChatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", false
	}
	if len(decoded.Choices) == 0 {
		return "", false
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", false
	}
	return content, true
}
