package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TaskService struct {
	db *database.DB
}

func NewTaskService(db *database.DB) *TaskService {
	return &TaskService{db: db}
}

const taskColumns = `id, artist_id, team_id, title, due_date, is_completed, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.ArtistID, &t.TeamID, &t.Title, &t.DueDate, &t.IsCompleted, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]models.Task, error) {
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// ListByArtist returns open tasks first, then by due date.
func (s *TaskService) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE artist_id = $1
		ORDER BY is_completed, due_date NULLS LAST, created_at
	`, artistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *TaskService) ListByTeam(ctx context.Context, teamID uuid.UUID, openOnly bool) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE team_id = $1 AND ($2 = FALSE OR is_completed = FALSE)
		ORDER BY due_date NULLS LAST, created_at
	`, teamID, openOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *TaskService) GetByID(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	t, err := scanTask(s.db.Pool.QueryRow(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = $1
	`, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// Create copies the team from the artist row so tasks can be listed per team.
func (s *TaskService) Create(ctx context.Context, artistID uuid.UUID, title string, dueDate *time.Time) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrNameRequired
	}

	t, err := scanTask(s.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (artist_id, team_id, title, due_date)
		SELECT id, team_id, $2, $3 FROM artists WHERE id = $1
		RETURNING `+taskColumns,
		artistID, title, dueDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, taskID uuid.UUID, title *string, dueDate *time.Time) (*models.Task, error) {
	if title == nil && dueDate == nil {
		return nil, ErrNoFieldsToUpdate
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, ErrNameRequired
	}

	t, err := scanTask(s.db.Pool.QueryRow(ctx, `
		UPDATE tasks SET
			title = COALESCE($1, title),
			due_date = COALESCE($2, due_date),
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+taskColumns,
		title, dueDate, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// SetCompleted writes the requested completion state. completed_at is
// stamped on completion and cleared when the task is reopened.
func (s *TaskService) SetCompleted(ctx context.Context, taskID uuid.UUID, completed bool) (*models.Task, error) {
	t, err := scanTask(s.db.Pool.QueryRow(ctx, `
		UPDATE tasks SET
			is_completed = $1,
			completed_at = CASE WHEN $1 THEN COALESCE(completed_at, NOW()) ELSE NULL END,
			updated_at = NOW()
		WHERE id = $2
		RETURNING `+taskColumns,
		completed, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
