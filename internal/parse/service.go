package parse

import (
	"context"
	"fmt"
	"time"

	"todo-ai-backend/internal/ai"
	"todo-ai-backend/internal/clock"
)

const temperature = 0.2

type Service struct {
	completer ai.Completer
	clock     clock.Clock
}

func NewService(completer ai.Completer, clk clock.Clock) *Service {
	return &Service{completer: completer, clock: clk}
}

// Outcome is a normalized parse plus what the response meta reports.
type Outcome struct {
	Result      Result
	Original    string
	Cleaned     string
	ProcessedAt time.Time
	Usage       ai.Usage
}

// Parse turns free text into a todo draft. Input is validated before any
// completion call is made.
func (s *Service) Parse(ctx context.Context, input string) (*Outcome, error) {
	cleaned := NormalizeInput(input)
	if err := ValidateInput(cleaned); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	prompt, err := BuildPrompt(now, cleaned)
	if err != nil {
		return nil, fmt.Errorf("build parse prompt: %w", err)
	}

	completion, err := s.completer.Complete(ctx, ai.Request{
		Operation:   "parse",
		System:      ai.SystemPrompt,
		Prompt:      prompt,
		Schema:      Schema,
		Temperature: temperature,
	})
	if err != nil {
		return nil, err
	}

	raw, err := ai.Decode[Result](completion)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Result:      NormalizeResult(raw, now),
		Original:    input,
		Cleaned:     cleaned,
		ProcessedAt: now,
		Usage:       completion.Usage,
	}, nil
}
