package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tsirionantsoa/taskhub/internal/platform/database"
	"github.com/tsirionantsoa/taskhub/internal/users/domain"
)

const userColumns = `id, name, email, password_hash, role, created_at`

// UserRepository provides persistence operations for users
type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts user and sets its generated ID.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	const q = `
INSERT INTO users (name, email, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	err := r.db.QueryRowContext(ctx, r.db.Rebind(q),
		user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return &domain.DuplicateEmailError{Email: user.Email}
		}
		return database.Wrap("create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, r.db.Rebind(q), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, database.Wrap("get user", err)
	}
	return u, nil
}

// GetByEmail retrieves a user by exact email match
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, r.db.Rebind(q), email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, database.Wrap("get user by email", err)
	}
	return u, nil
}

// List returns every user.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	q := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, database.Wrap("list users", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, database.Wrap("scan user", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list users", err)
	}
	return out, nil
}

// Update writes name, email and password hash.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	const q = `
UPDATE users
SET name = $1, email = $2, password_hash = $3
WHERE id = $4`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), user.Name, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return &domain.DuplicateEmailError{Email: user.Email}
		}
		return database.Wrap("update user", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return database.Wrap("update user", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Exists reports whether a user with id is stored.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(q), id).Scan(&ok); err != nil {
		return false, database.Wrap("user exists", err)
	}
	return ok, nil
}

// Delete removes the user with its projects and their tasks in one
// transaction. The schema also cascades; deleting children first keeps
// the result the same where foreign keys are not enforced.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(
			`DELETE FROM tasks WHERE project_id IN (SELECT id FROM projects WHERE owner_id = $1)`), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM projects WHERE owner_id = $1`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = $1`), id)
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
		return false, database.Wrap("delete user", err)
	}
	return deleted, nil
}

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, database.Wrap("count users", err)
	}
	return n, nil
}
