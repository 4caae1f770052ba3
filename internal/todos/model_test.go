package todos

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-ai-backend/internal/clock"
)

var kst = clock.Zone(9)

// Thursday 2024-03-14 10:00 in UTC+9.
var now = time.Date(2024, 3, 14, 10, 0, 0, 0, kst)

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, ParsePriority("high"))
	assert.Equal(t, PriorityLow, ParsePriority(" LOW "))
	assert.Equal(t, PriorityMedium, ParsePriority("urgent"))
	assert.Equal(t, PriorityMedium, ParsePriority(""))
}

func TestValidDueTime(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, ValidDueTime(ok), ok)
	}
	for _, bad := range []string{"24:00", "9:30", "12:60", "noon", ""} {
		assert.False(t, ValidDueTime(bad), bad)
	}
}

func TestDeadline(t *testing.T) {
	d, ok := Todo{DueDate: "2024-03-15", DueTime: "15:00"}.Deadline(kst)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 15, 0, 0, 0, kst), d)

	d, ok = Todo{DueDate: "2024-03-15"}.Deadline(kst)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, kst), d)

	d, ok = Todo{DueDate: "2024-03-15", DueTime: "25:00"}.Deadline(kst)
	require.True(t, ok)
	assert.Equal(t, 23, d.Hour())

	_, ok = Todo{}.Deadline(kst)
	assert.False(t, ok)
}

func TestOverdue(t *testing.T) {
	assert.True(t, Todo{DueDate: "2024-03-13"}.Overdue(now))
	assert.True(t, Todo{DueDate: "2024-03-14", DueTime: "09:59"}.Overdue(now))
	assert.False(t, Todo{DueDate: "2024-03-14"}.Overdue(now))
	assert.False(t, Todo{DueDate: "2024-03-13", Completed: true}.Overdue(now))
	assert.False(t, Todo{}.Overdue(now))
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" 업무 ", "업무", "", "개인", "건강", "학습"})
	assert.Equal(t, []string{"업무", "개인", "건강"}, got)

	assert.Equal(t, []string{}, NormalizeCategories(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "짧은 제목", Truncate("짧은 제목", 50))
	assert.Equal(t, "가나...", Truncate("가나다라마바", 5))
	assert.Equal(t, "가나다라마", Truncate("가나다라마", 5))
}

func TestTodo_UnmarshalCreatedDate(t *testing.T) {
	var td Todo
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "a",
		"due_date": null,
		"category": null,
		"created_date": "2024-03-10T09:00:00Z"
	}`), &td))

	assert.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), td.CreatedAt)
	assert.Empty(t, td.DueDate)

	require.NoError(t, json.Unmarshal([]byte(`{"created_at":"2024-03-01T00:00:00Z","created_date":"2024-03-10"}`), &td))
	assert.Equal(t, 1, td.CreatedAt.Day())
}

func TestTodo_UnmarshalLooseTimestamps(t *testing.T) {
	var td Todo
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "a",
		"created_at": "2024-03-10",
		"updated_at": "yesterday",
		"completed": true,
		"completed_at": ""
	}`), &td))

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), td.CreatedAt)
	assert.True(t, td.UpdatedAt.IsZero())
	assert.Nil(t, td.CompletedAt)

	require.NoError(t, json.Unmarshal([]byte(`{"title":"b","completed_at":"2024-03-12T08:30:00+09:00","created_at":null}`), &td))
	require.NotNil(t, td.CompletedAt)
	assert.True(t, time.Date(2024, 3, 11, 23, 30, 0, 0, time.UTC).Equal(*td.CompletedAt))
	assert.True(t, td.CreatedAt.IsZero())
}
