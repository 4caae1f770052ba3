package todos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-ai-backend/internal/apperr"
)

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want string
	}{
		{"ok", Input{Title: "보고서", DueDate: "2024-03-15", DueTime: "15:00", Priority: "high"}, ""},
		{"title only", Input{Title: "운동"}, ""},
		{"missing title", Input{}, "title은(는) 필수입니다."},
		{"long title", Input{Title: strings.Repeat("가", 51)}, "title은(는) 최대 50자까지 입력 가능합니다."},
		{"bad date", Input{Title: "a", DueDate: "03/15/2024"}, "due_date은(는) YYYY-MM-DD 형식이어야 합니다."},
		{"bad time", Input{Title: "a", DueTime: "24:00"}, "due_time은(는) HH:MM(00:00-23:59) 형식이어야 합니다."},
		{"bad priority", Input{Title: "a", Priority: "urgent"}, "priority은(는) high medium low 중 하나여야 합니다."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.want == "" {
				assert.NoError(t, err)
				return
			}
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.KindValidation, e.Kind)
			assert.Equal(t, tc.want, e.Message)
		})
	}
}

func TestInput_Normalize(t *testing.T) {
	in := Input{
		Title:    "  보고서  ",
		Priority: " HIGH ",
		DueTime:  " 09:00 ",
		Category: []string{"업무", "업무 ", "개인", "건강", "학습"},
	}
	in.Normalize()

	assert.Equal(t, "보고서", in.Title)
	assert.Equal(t, "high", in.Priority)
	assert.Equal(t, "09:00", in.DueTime)
	assert.Equal(t, []string{"업무", "개인", "건강"}, in.Category)
	assert.NoError(t, in.Validate())
}
