// ABOUTME: HTTP client for the external chat-completion service
// ABOUTME: One request per customer turn, no retries - failures surface immediately

package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agentarmy/console/internal/persona"
)

const (
	defaultBaseURL     = "https://openrouter.ai/api/v1"
	defaultModel       = "google/gemini-2.0-flash-001"
	defaultMaxTokens   = 500
	defaultTemperature = 0.7
	defaultTimeout     = 30 * time.Second
)

// Role tags a chat message for the completion service.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one role-tagged entry in the prompt.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Config holds client settings. Zero values fall back to defaults.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Logger      *slog.Logger
	HTTPClient  *http.Client // overridable for tests
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a completion client from config, applying defaults
// for any unset field.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		httpClient:  cfg.HTTPClient,
		logger:      logger.With("component", "completion"),
	}
}

// chatCompletionRequest is the wire format for POST /chat/completions.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatCompletionResponse is the subset of the response the engine reads.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// Complete sends one completion request: the persona's instructions as the
// system entry, the prior history, then the new customer message. The
// generated text is returned verbatim. A single failed attempt is returned
// as a typed *Error with no retry; retry policy belongs to the caller.
func (c *Client) Complete(ctx context.Context, p persona.Persona, history []ChatMessage, customerMessage string) (string, error) {
	if strings.TrimSpace(customerMessage) == "" {
		return "", newError(KindInvalidResponse, 0, "customer message is empty", nil)
	}

	logger := c.logger.With("persona", string(p.Kind), "model", c.model)

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: RoleSystem, Content: p.Instructions})
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: RoleUser, Content: customerMessage})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", newError(KindInvalidResponse, 0, fmt.Sprintf("marshaling request: %v", err), err)
	}

	// Apply the configured timeout only when the caller did not set one.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", newError(KindUnavailable, 0, fmt.Sprintf("building request: %v", err), err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	logger.Debug("sending completion request", "history_len", len(history))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("completion transport failure", "error", err)
		return "", newError(KindUnavailable, 0, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.errorFromStatus(resp, logger)
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Warn("completion response undecodable", "error", err)
		return "", newError(KindInvalidResponse, resp.StatusCode, fmt.Sprintf("decoding response: %v", err), err)
	}

	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		logger.Warn("completion response missing text")
		return "", newError(KindInvalidResponse, resp.StatusCode, "no completion text in response", nil)
	}

	text := result.Choices[0].Message.Content
	logger.Debug("completion succeeded", "reply_len", len(text))
	return text, nil
}

// errorFromStatus maps a non-200 response to the error taxonomy:
// 429 and quota codes are rate_limited, 5xx is unavailable, anything
// else the service answered with is invalid_response.
func (c *Client) errorFromStatus(resp *http.Response, logger *slog.Logger) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(raw))

	var apiErr chatCompletionResponse
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	logger.Warn("completion request rejected", "status", resp.StatusCode, "message", message)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return newError(KindRateLimited, resp.StatusCode, message, nil)
	case resp.StatusCode == http.StatusPaymentRequired || strings.Contains(strings.ToLower(message), "quota"):
		return newError(KindRateLimited, resp.StatusCode, message, nil)
	case resp.StatusCode >= 500:
		return newError(KindUnavailable, resp.StatusCode, message, nil)
	default:
		return newError(KindInvalidResponse, resp.StatusCode, message, nil)
	}
}

// KindOf extracts the error kind from err, defaulting to unavailable
// for anything that is not a typed completion error.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnavailable
}
