package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrNotFound is returned when no todo with the id belongs to the user.
var ErrNotFound = errors.New("todo not found")

// Store persists todos. Every method is scoped to the owning user.
type Store interface {
	List(ctx context.Context, userID string) ([]Todo, error)
	Get(ctx context.Context, userID, id string) (Todo, error)
	Create(ctx context.Context, t Todo) (Todo, error)
	Update(ctx context.Context, t Todo) (Todo, error)
	SetCompleted(ctx context.Context, userID, id string, completed bool, at time.Time) (Todo, error)
	Delete(ctx context.Context, userID, id string) error
}

type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const selectColumns = `
	id,
	user_id,
	title,
	COALESCE(description, ''),
	created_at,
	updated_at,
	COALESCE(to_char(due_date, 'YYYY-MM-DD'), ''),
	COALESCE(due_time, ''),
	priority,
	category,
	completed,
	completed_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (Todo, error) {
	var (
		t           Todo
		priority    string
		category    pq.StringArray
		completedAt sql.NullTime
	)
	err := s.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DueDate,
		&t.DueTime,
		&priority,
		&category,
		&t.Completed,
		&completedAt,
	)
	if err != nil {
		return Todo{}, err
	}
	t.Priority = ParsePriority(priority)
	t.Category = []string(category)
	if t.Category == nil {
		t.Category = []string{}
	}
	if completedAt.Valid {
		ts := completedAt.Time
		t.CompletedAt = &ts
	}
	return t, nil
}

func (s *PGStore) List(ctx context.Context, userID string) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT`+selectColumns+`
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	result := []Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return result, nil
}

func (s *PGStore) Get(ctx context.Context, userID, id string) (Todo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT`+selectColumns+`
		FROM todos
		WHERE user_id = $1 AND id = $2
	`, userID, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

func (s *PGStore) Create(ctx context.Context, t Todo) (Todo, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO todos (
			id, user_id, title, description,
			created_at, updated_at,
			due_date, due_time,
			priority, category
		)
		VALUES ($1, $2, $3, $4, $5, $5, NULLIF($6, '')::date, NULLIF($7, ''), $8, $9)
		RETURNING`+selectColumns,
		t.ID, t.UserID, t.Title, t.Description,
		t.CreatedAt,
		t.DueDate, t.DueTime,
		string(t.Priority), pq.Array(t.Category),
	)
	created, err := scanTodo(row)
	if err != nil {
		return Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return created, nil
}

func (s *PGStore) Update(ctx context.Context, t Todo) (Todo, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE todos SET
			title = $3,
			description = $4,
			due_date = NULLIF($5, '')::date,
			due_time = NULLIF($6, ''),
			priority = $7,
			category = $8,
			updated_at = $9
		WHERE user_id = $1 AND id = $2
		RETURNING`+selectColumns,
		t.UserID, t.ID,
		t.Title, t.Description,
		t.DueDate, t.DueTime,
		string(t.Priority), pq.Array(t.Category),
		t.UpdatedAt,
	)
	updated, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return updated, nil
}

// SetCompleted stamps completed_at with at on the transition to completed,
// keeps an existing stamp when the todo is already completed, and clears it
// when reopening.
func (s *PGStore) SetCompleted(ctx context.Context, userID, id string, completed bool, at time.Time) (Todo, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE todos SET
			completed = $3,
			completed_at = CASE WHEN $3 THEN COALESCE(completed_at, $4) ELSE NULL END,
			updated_at = $4
		WHERE user_id = $1 AND id = $2
		RETURNING`+selectColumns,
		userID, id, completed, at,
	)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("set completion: %w", err)
	}
	return t, nil
}

func (s *PGStore) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
