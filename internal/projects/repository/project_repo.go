package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tsirionantsoa/taskhub/internal/platform/database"
	"github.com/tsirionantsoa/taskhub/internal/platform/dates"
	"github.com/tsirionantsoa/taskhub/internal/projects/domain"
)

const projectColumns = `id, owner_id, name, description, start_date, end_date, created_at`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p          domain.Project
		start, end sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &start, &end, &p.CreatedAt); err != nil {
		return nil, err
	}
	if start.Valid {
		p.StartDate = dates.Normalize(&start.Time)
	}
	if end.Valid {
		p.EndDate = dates.Normalize(&end.Time)
	}
	return &p, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts p and sets its generated ID.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects (owner_id, name, description, start_date, end_date, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	err := r.db.QueryRowContext(ctx, r.db.Rebind(q),
		p.OwnerID, p.Name, p.Description, nullTime(p.StartDate), nullTime(p.EndDate), p.CreatedAt,
	).Scan(&p.ID)
	if database.IsForeignKeyViolation(err) {
		return domain.ErrOwnerNotFound
	}
	if err != nil {
		return database.Wrap("create project", err)
	}
	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRowContext(ctx, r.db.Rebind(q), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, database.Wrap("get project", err)
	}
	return p, nil
}

// ListByOwner returns all projects owned by the given user.
func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), ownerID)
	if err != nil {
		return nil, database.Wrap("list projects", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, database.Wrap("scan project", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list projects", err)
	}
	return out, nil
}

// Update writes the mutable fields. The owner column is never touched.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	const q = `
UPDATE projects
SET name = $1, description = $2, start_date = $3, end_date = $4
WHERE id = $5`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		p.Name, p.Description, nullTime(p.StartDate), nullTime(p.EndDate), p.ID,
	)
	if err != nil {
		return database.Wrap("update project", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return database.Wrap("update project", err)
	}
	if n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Delete removes the project and its tasks in one transaction.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM tasks WHERE project_id = $1`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM projects WHERE id = $1`), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	if err != nil {
		return false, database.Wrap("delete project", err)
	}
	return deleted, nil
}
