package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tsirionantsoa/taskhub/internal/platform/database"
	"github.com/tsirionantsoa/taskhub/internal/platform/dates"
	"github.com/tsirionantsoa/taskhub/internal/tasks/domain"
)

const taskColumns = `id, project_id, title, priority, due_date, status, created_at, updated_at`

// TaskRepository provides persistence operations for tasks
type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		t   domain.Task
		due sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Priority, &due, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		t.DueDate = dates.Normalize(&due.Time)
	}
	return &t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts t and sets its generated ID.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	const q = `
INSERT INTO tasks (project_id, title, priority, due_date, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

	err := r.db.QueryRowContext(ctx, r.db.Rebind(q),
		t.ProjectID, t.Title, t.Priority, nullTime(t.DueDate), t.Status, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if database.IsForeignKeyViolation(err) {
		return domain.ErrProjectNotFound
	}
	if err != nil {
		return database.Wrap("create task", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(r.db.QueryRowContext(ctx, r.db.Rebind(q), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, database.Wrap("get task", err)
	}
	return t, nil
}

// ListByProject returns the tasks of one project in creation order.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), projectID)
	if err != nil {
		return nil, database.Wrap("list tasks", err)
	}
	defer rows.Close()

	out := make([]domain.Task, 0, 16)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, database.Wrap("scan task", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list tasks", err)
	}
	return out, nil
}

// Update writes the editable columns. Status and project_id are left as stored.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	const q = `
UPDATE tasks
SET title = $1, priority = $2, due_date = $3, updated_at = $4
WHERE id = $5`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		t.Title, t.Priority, nullTime(t.DueDate), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return database.Wrap("update task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return database.Wrap("update task", err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM tasks WHERE id = $1`), id)
	if err != nil {
		return false, database.Wrap("delete task", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, database.Wrap("delete task", err)
	}
	return n > 0, nil
}

// CountByOwnerAndStatus counts tasks with exactly status across every
// project owned by ownerID.
func (r *TaskRepository) CountByOwnerAndStatus(ctx context.Context, ownerID int64, status string) (int64, error) {
	const q = `
SELECT COUNT(*)
FROM tasks t
JOIN projects p ON p.id = t.project_id
WHERE p.owner_id = $1 AND t.status = $2`

	var n int64
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(q), ownerID, status).Scan(&n); err != nil {
		return 0, database.Wrap("count tasks", err)
	}
	return n, nil
}
