package analysis

import (
	"context"
	"fmt"
	"time"

	"todo-ai-backend/internal/ai"
	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/todos"
)

const temperature = 0.3

type Service struct {
	completer ai.Completer
	clock     clock.Clock
}

func NewService(completer ai.Completer, clk clock.Clock) *Service {
	return &Service{completer: completer, clock: clk}
}

type Outcome struct {
	Result     Result
	Period     Period
	Stats      Stats
	AnalyzedAt time.Time
	// Canned is set when the list was empty and no completion was requested.
	Canned bool
	Usage  ai.Usage
}

// Analyze summarizes a list the caller already narrowed to period. A nil
// list means no list was sent at all and is rejected; an empty one gets the
// canned encouragement without a completion call.
func (s *Service) Analyze(ctx context.Context, list []todos.Todo, period string) (*Outcome, error) {
	if list == nil {
		return nil, apperr.New(apperr.KindValidation, "유효하지 않은 데이터", "할 일 목록이 필요합니다.")
	}
	p, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, list, p, s.clock.Now())
}

// ForPeriod narrows every todo the caller owns to period and analyzes the
// rest.
func (s *Service) ForPeriod(ctx context.Context, all []todos.Todo, period string) (*Outcome, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	return s.analyze(ctx, p.Filter(all, now), p, now)
}

func (s *Service) analyze(ctx context.Context, list []todos.Todo, p Period, now time.Time) (*Outcome, error) {
	stats := Compute(list, now)
	out := &Outcome{Period: p, Stats: stats, AnalyzedAt: now}

	if len(list) == 0 {
		out.Result = EmptyResult(p)
		out.Canned = true
		return out, nil
	}

	prompt, err := BuildPrompt(now, p, list, stats)
	if err != nil {
		return nil, fmt.Errorf("build analysis prompt: %w", err)
	}

	completion, err := s.completer.Complete(ctx, ai.Request{
		Operation:   "analyze",
		System:      ai.SystemPrompt,
		Prompt:      prompt,
		Schema:      Schema,
		Temperature: temperature,
	})
	if err != nil {
		return nil, err
	}

	res, err := ai.Decode[Result](completion)
	if err != nil {
		return nil, err
	}
	out.Result = res.normalize()
	out.Usage = completion.Usage
	return out, nil
}
