package todos

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var todoColumns = []string{
	"id", "user_id", "title", "description", "created_at", "updated_at",
	"due_date", "due_time", "priority", "category", "completed", "completed_at",
}

func newMockStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGStore(db), mock
}

func TestPGStore_List(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 3, 14, 1, 0, 0, 0, time.UTC)
	done := created.Add(time.Hour)

	mock.ExpectQuery(`SELECT .* FROM todos\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow("t1", "user-1", "보고서", "", created, created, "2024-03-15", "15:00", "high", "{업무,개인}", false, nil).
			AddRow("t2", "user-1", "운동", "헬스", created, done, "", "", "bogus", "{}", true, done))

	list, err := store.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "t1", list[0].ID)
	assert.Equal(t, PriorityHigh, list[0].Priority)
	assert.Equal(t, []string{"업무", "개인"}, list[0].Category)
	assert.Nil(t, list[0].CompletedAt)

	assert.Equal(t, PriorityMedium, list[1].Priority)
	assert.Equal(t, []string{}, list[1].Category)
	require.NotNil(t, list[1].CompletedAt)
	assert.Equal(t, done, *list[1].CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStore_ListEmpty(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .* FROM todos`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(todoColumns))

	list, err := store.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPGStore_Create(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2024, 3, 14, 1, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO todos`).
		WithArgs(sqlmock.AnyArg(), "user-1", "보고서", "", created, "2024-03-15", "", "medium", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow("t1", "user-1", "보고서", "", created, created, "2024-03-15", "", "medium", "{업무}", false, nil))

	got, err := store.Create(context.Background(), Todo{
		UserID:    "user-1",
		Title:     "보고서",
		CreatedAt: created,
		DueDate:   "2024-03-15",
		Priority:  PriorityMedium,
		Category:  []string{"업무"},
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", got.ID)
	assert.Equal(t, []string{"업무"}, got.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStore_UpdateNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`UPDATE todos SET`).
		WillReturnRows(sqlmock.NewRows(todoColumns))

	_, err := store.Update(context.Background(), Todo{ID: "t1", UserID: "user-2", Title: "x", Priority: PriorityLow})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGStore_SetCompleted(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2024, 3, 14, 1, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE todos SET\s+completed = \$3,\s+completed_at = CASE WHEN \$3 THEN COALESCE\(completed_at, \$4\) ELSE NULL END`).
		WithArgs("user-1", "t1", true, at).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow("t1", "user-1", "보고서", "", at, at, "", "", "low", "{}", true, at))

	got, err := store.SetCompleted(context.Background(), "user-1", "t1", true, at)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)

	mock.ExpectQuery(`UPDATE todos SET\s+completed = \$3`).
		WithArgs("user-1", "t1", false, at).
		WillReturnRows(sqlmock.NewRows(todoColumns).
			AddRow("t1", "user-1", "보고서", "", at, at, "", "", "low", "{}", false, nil))

	got, err = store.SetCompleted(context.Background(), "user-1", "t1", false, at)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM todos WHERE user_id = \$1 AND id = \$2`).
		WithArgs("user-1", "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Delete(context.Background(), "user-1", "t1"))

	mock.ExpectExec(`DELETE FROM todos`).
		WithArgs("user-1", "t2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, store.Delete(context.Background(), "user-1", "t2"), ErrNotFound)

	mock.ExpectExec(`DELETE FROM todos`).
		WithArgs("user-1", "t3").
		WillReturnError(sql.ErrConnDone)
	err := store.Delete(context.Background(), "user-1", "t3")
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGStore_GetNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .* FROM todos\s+WHERE user_id = \$1 AND id = \$2`).
		WithArgs("user-1", "t9").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "user-1", "t9")
	assert.ErrorIs(t, err, ErrNotFound)
}
