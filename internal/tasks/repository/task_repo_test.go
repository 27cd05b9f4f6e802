package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsirionantsoa/taskhub/config"
	"github.com/tsirionantsoa/taskhub/internal/platform/database"
	"github.com/tsirionantsoa/taskhub/internal/tasks/domain"
)

func setupTaskRepo(t *testing.T) (*TaskRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewTaskRepository(database.New(db, config.DriverPostgres)), mock, db
}

func TestTaskRepository_Create(t *testing.T) {
	repo, mock, db := setupTaskRepo(t)
	defer db.Close()
	now := time.Date(2025, 2, 2, 10, 0, 0, 0, time.UTC)

	task := &domain.Task{ProjectID: 4, Title: "Maquette", Priority: "HAUTE", Status: "EN_COURS", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(`INSERT INTO tasks`).
		WithArgs(int64(4), "Maquette", "HAUTE", nil, "EN_COURS", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))

	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, int64(21), task.ID)
	require.NoError(t, mock.ExpectationsWereMet())

	t.Run("project removed concurrently", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.Create(context.Background(), &domain.Task{ProjectID: 99, CreatedAt: now, UpdatedAt: now})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepository_UpdateLeavesStatusAlone(t *testing.T) {
	repo, mock, db := setupTaskRepo(t)
	defer db.Close()
	now := time.Now().UTC()

	mock.ExpectExec(`UPDATE tasks\s+SET title = \$1, priority = \$2, due_date = \$3, updated_at = \$4\s+WHERE id = \$5`).
		WithArgs("t", "BASSE", nil, now, int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &domain.Task{ID: 8, Title: "t", Priority: "BASSE", Status: "TERMINÉ", UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByIDNotFound(t *testing.T) {
	repo, mock, db := setupTaskRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM tasks WHERE id`).
		WithArgs(int64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CountByOwnerAndStatus(t *testing.T) {
	repo, mock, db := setupTaskRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM tasks t\s+JOIN projects p`).
		WithArgs(int64(2), "TERMINÉ").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := repo.CountByOwnerAndStatus(context.Background(), 2, "TERMINÉ")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
