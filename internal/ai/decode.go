package ai

import (
	"encoding/json"
	"errors"
	"fmt"

	"todo-ai-backend/internal/apperr"
)

// Decode unmarshals the completion's JSON object into T. Any failure is a
// malformed-response error.
func Decode[T any](c *Completion) (T, error) {
	var v T
	if c == nil {
		return v, apperr.Malformed(errors.New("nil completion"))
	}
	if err := json.Unmarshal([]byte(c.Content), &v); err != nil {
		return v, apperr.Malformed(fmt.Errorf("decode completion: %w", err))
	}
	return v, nil
}
