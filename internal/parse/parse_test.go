package parse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-ai-backend/internal/apperr"
	"todo-ai-backend/internal/clock"
	"todo-ai-backend/internal/todos"
)

// Thursday 2024-03-14 10:00 in UTC+9.
var now = time.Date(2024, 3, 14, 10, 0, 0, 0, clock.Zone(9))

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  내일 회의 준비  ", "내일 회의 준비"},
		{"내일\n\n\n\n회의\t\t준비", "내일 회의 준비"},
		{"cafe\u0301 가기", "caf\u00e9 가기"},
		{"", ""},
	}
	for _, tc := range tests {
		got := NormalizeInput(tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, got, NormalizeInput(got), "idempotent for %q", tc.in)
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", MsgInputRequired},
		{"one rune", "가", MsgInputTooShort},
		{"too long", strings.Repeat("가", 501), MsgInputTooLong},
		{"punctuation only", "?!..", MsgInputMeaningful},
		{"emoji only", "🎉 🎉", MsgInputMeaningful},
		{"emoji sequence", "\U0001F468\u200d\U0001F469\u200d\U0001F467 \U0001F44D\U0001F3FB!", MsgInputMeaningful},
		{"two runes", "운동", ""},
		{"max length", strings.Repeat("가", 500), ""},
		{"digits", "12", ""},
		{"emoji and text", "🎉 파티 준비", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateInput(NormalizeInput(tc.in))
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

func TestLabels_Unmarshal(t *testing.T) {
	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{"category":"업무"}`), &r))
	assert.Equal(t, Labels{"업무"}, r.Category)

	require.NoError(t, json.Unmarshal([]byte(`{"category":["업무", 3, "개인"]}`), &r))
	assert.Equal(t, Labels{"업무", "개인"}, r.Category)

	require.NoError(t, json.Unmarshal([]byte(`{"category":{"a":1}}`), &r))
	assert.Empty(t, r.Category)
}

func TestNormalizeResult(t *testing.T) {
	in := Result{
		Title:       "  " + strings.Repeat("가", 60) + " ",
		Description: strings.Repeat("나", 510),
		DueDate:     "2024-03-20",
		DueTime:     "9:00",
		Priority:    "urgent",
		Category:    Labels{"업무", " 업무", "", "개인", "건강", "학습"},
	}

	out := NormalizeResult(in, now)

	assert.Equal(t, strings.Repeat("가", 47)+"...", out.Title)
	assert.Len(t, []rune(out.Description), 500)
	assert.True(t, strings.HasSuffix(out.Description, "..."))
	assert.Equal(t, "2024-03-20", out.DueDate)
	assert.Empty(t, out.DueTime)
	assert.Equal(t, todos.PriorityMedium, out.Priority)
	assert.Equal(t, Labels{"업무", "개인", "건강"}, out.Category)
}

func TestNormalizeResult_PastDateBecomesToday(t *testing.T) {
	out := NormalizeResult(Result{Title: "보고서", DueDate: "2024-03-13", Priority: "high"}, now)

	assert.Equal(t, "2024-03-14", out.DueDate)
	assert.Equal(t, todos.PriorityHigh, out.Priority)
}

func TestNormalizeResult_Defaults(t *testing.T) {
	out := NormalizeResult(Result{Title: "   ", DueDate: "someday", DueTime: "24:00"}, now)

	assert.Equal(t, DefaultTitle, out.Title)
	assert.Empty(t, out.DueDate)
	assert.Empty(t, out.DueTime)
	assert.Equal(t, todos.PriorityMedium, out.Priority)
	assert.NotNil(t, out.Category)
	assert.Empty(t, out.Category)
}

func TestNormalizeResult_Invariants(t *testing.T) {
	inputs := []Result{
		{},
		{Title: strings.Repeat("x", 200), DueDate: "2020-01-01", DueTime: "23:59", Priority: "low"},
		{Title: "a", DueDate: "2024-03-14T23:00:00Z", DueTime: "12:60", Category: Labels{"a", "a", "a"}},
	}
	today := clock.StartOfDay(now)
	for _, in := range inputs {
		out := NormalizeResult(in, now)
		n := len([]rune(out.Title))
		assert.True(t, n > 0 && n <= todos.MaxTitleLen)
		assert.LessOrEqual(t, len([]rune(out.Description)), todos.MaxDescriptionLen)
		assert.True(t, out.DueTime == "" || todos.ValidDueTime(out.DueTime))
		assert.True(t, out.Priority.Valid())
		assert.LessOrEqual(t, len(out.Category), todos.MaxCategories)
		if out.DueDate != "" {
			d, err := clock.ParseDate(out.DueDate, now.Location())
			require.NoError(t, err)
			assert.False(t, d.Before(today))
		}
	}
}

func TestBuildPrompt_ResolvesRelativeDates(t *testing.T) {
	prompt, err := BuildPrompt(now, "내일 오후 3시까지 보고서 작성")
	require.NoError(t, err)

	assert.Contains(t, prompt, "날짜/시간: 2024-03-14 10:00 (목요일)")
	assert.Contains(t, prompt, `- "내일" → 2024-03-15`)
	assert.Contains(t, prompt, `- "모레" → 2024-03-16`)
	assert.Contains(t, prompt, `- "이번 주 금요일" → 2024-03-15`)
	assert.Contains(t, prompt, `- "다음 주 월요일", "다음 주" → 2024-03-18`)
	assert.Contains(t, prompt, `- "다음 주 금요일" → 2024-03-22`)
	assert.Contains(t, prompt, `"오후 3시", "15시" → 15:00`)
	assert.Contains(t, prompt, `"내일 오후 3시까지 보고서 작성"`)

	again, err := BuildPrompt(now, "내일 오후 3시까지 보고서 작성")
	require.NoError(t, err)
	assert.Equal(t, prompt, again)
}

func TestSchema_ListsEveryField(t *testing.T) {
	required, ok := Schema.Definition["required"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"category", "description", "due_date", "due_time", "priority", "title"}, required)
	assert.Equal(t, false, Schema.Definition["additionalProperties"])
}
