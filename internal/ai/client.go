package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"todo-ai-backend/internal/apperr"
)

// ErrNotConfigured is wrapped in a configuration error when no API key is set.
var ErrNotConfigured = errors.New("openai api key is not set")

// Request is one schema-constrained completion.
type Request struct {
	// Operation labels telemetry, e.g. "parse" or "analyze".
	Operation   string
	System      string
	Prompt      string
	Schema      Schema
	Temperature float64
}

type Usage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"estimated_cost_usd"`
}

// Completion holds the raw JSON object produced by the model.
type Completion struct {
	Content string
	Model   string
	Usage   Usage
}

// Completer turns a prompt plus an output schema into a JSON object that
// conforms to the schema, or fails with an *apperr.Error.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

type OpenAIClient struct {
	client *resty.Client
	apiKey string
	Model  string
}

func NewOpenAIClient(apiKey, model, baseURL string, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &OpenAIClient{client: c, apiKey: apiKey, Model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema"`
	Strict      bool           `json:"strict"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	if c.apiKey == "" {
		completionRequestsTotal.WithLabelValues(req.Operation, "config").Inc()
		return nil, apperr.Config(ErrNotConfigured)
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      req.Schema.Definition,
				Strict:      true,
			},
		},
	}

	started := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&body).
		Post("/chat/completions")
	if err != nil {
		completionRequestsTotal.WithLabelValues(req.Operation, "network").Inc()
		return nil, apperr.Network(fmt.Errorf("openai request: %w", err))
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		var ae apiError
		_ = json.Unmarshal(resp.Body(), &ae)
		classified := classifyStatus(resp.StatusCode(), ae)
		completionRequestsTotal.WithLabelValues(req.Operation, classified.Kind.String()).Inc()
		return nil, classified
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil {
		completionRequestsTotal.WithLabelValues(req.Operation, "malformed").Inc()
		return nil, apperr.Malformed(fmt.Errorf("decode chat response: %w", err))
	}

	model := cr.Model
	if model == "" {
		model = c.Model
	}
	usage := Usage{
		InputTokens:  cr.Usage.PromptTokens,
		OutputTokens: cr.Usage.CompletionTokens,
		TotalTokens:  cr.Usage.TotalTokens,
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	usage.CostUSD = CalculateCost(model, usage.InputTokens, usage.OutputTokens)
	recordUsage(ctx, req.Operation, model, usage, time.Since(started))

	content, err := extractContent(cr)
	if err != nil {
		completionRequestsTotal.WithLabelValues(req.Operation, "malformed").Inc()
		return nil, apperr.Malformed(err)
	}

	completionRequestsTotal.WithLabelValues(req.Operation, "ok").Inc()
	return &Completion{Content: content, Model: model, Usage: usage}, nil
}

func extractContent(cr chatResponse) (string, error) {
	if len(cr.Choices) == 0 {
		return "", errors.New("no choices in chat response")
	}
	choice := cr.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", choice.Message.Refusal)
	}
	if choice.FinishReason == "length" {
		return "", errors.New("completion truncated at token limit")
	}
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", errors.New("empty completion content")
	}
	if !json.Valid([]byte(content)) {
		return "", errors.New("completion content is not valid JSON")
	}
	return content, nil
}

// classifyStatus maps a non-2xx response onto the error taxonomy using the
// structured error code first and the HTTP status second.
func classifyStatus(status int, ae apiError) *apperr.Error {
	cause := fmt.Errorf("openai status %d: type=%s code=%s: %s",
		status, ae.Error.Type, ae.Error.Code, ae.Error.Message)

	switch ae.Error.Code {
	case "invalid_api_key", "invalid_organization":
		return apperr.UpstreamAuth(cause)
	case "rate_limit_exceeded", "insufficient_quota":
		return apperr.RateLimit(cause)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.UpstreamAuth(cause)
	case http.StatusTooManyRequests:
		return apperr.RateLimit(cause)
	default:
		return apperr.Unknown(cause)
	}
}

func recordUsage(ctx context.Context, op, model string, u Usage, took time.Duration) {
	completionTokensTotal.WithLabelValues(op, "input").Add(float64(u.InputTokens))
	completionTokensTotal.WithLabelValues(op, "output").Add(float64(u.OutputTokens))
	completionCostUSDTotal.WithLabelValues(op).Add(u.CostUSD)

	zerolog.Ctx(ctx).Info().
		Str("operation", op).
		Str("model", model).
		Int("input_tokens", u.InputTokens).
		Int("output_tokens", u.OutputTokens).
		Int("total_tokens", u.TotalTokens).
		Float64("estimated_cost_usd", u.CostUSD).
		Dur("took", took).
		Msg("completion usage")
}
