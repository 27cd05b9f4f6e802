package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tsirionantsoa/taskhub/internal/credential"
	"github.com/tsirionantsoa/taskhub/internal/platform/database/databasetest"
	"github.com/tsirionantsoa/taskhub/internal/platform/validation"
	projectdomain "github.com/tsirionantsoa/taskhub/internal/projects/domain"
	projectrepo "github.com/tsirionantsoa/taskhub/internal/projects/repository"
	projectservice "github.com/tsirionantsoa/taskhub/internal/projects/service"
	"github.com/tsirionantsoa/taskhub/internal/tasks/cache"
	"github.com/tsirionantsoa/taskhub/internal/tasks/domain"
	"github.com/tsirionantsoa/taskhub/internal/tasks/repository"
	userdomain "github.com/tsirionantsoa/taskhub/internal/users/domain"
	userrepo "github.com/tsirionantsoa/taskhub/internal/users/repository"
	userservice "github.com/tsirionantsoa/taskhub/internal/users/service"
)

type fixture struct {
	users    *userservice.UserService
	projects *projectservice.ProjectService
	tasks    *TaskService
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func setup(t *testing.T, statsCache *cache.StatusCache, opts ...Option) *fixture {
	t.Helper()
	db := databasetest.Open(t)

	urepo := userrepo.NewUserRepository(db)
	users := userservice.NewUserService(urepo, credential.NewBcryptHasher(bcrypt.MinCost), userservice.WithStatsInvalidator(statsCache))
	projects := projectservice.NewProjectService(projectrepo.NewProjectRepository(db), users, projectservice.WithStatsInvalidator(statsCache))
	tasks := NewTaskService(repository.NewTaskRepository(db), projects, append([]Option{WithCache(statsCache)}, opts...)...)

	return &fixture{users: users, projects: projects, tasks: tasks}
}

func (f *fixture) user(t *testing.T, email string) int64 {
	t.Helper()
	u, err := f.users.Register(context.Background(), &userdomain.RegisterRequest{Name: "u", Email: email, Password: "p"})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) project(t *testing.T, owner int64) int64 {
	t.Helper()
	p, err := f.projects.Create(context.Background(), owner, projectdomain.Input{Name: "p", Description: "d"})
	require.NoError(t, err)
	return p.ID
}

func TestTaskService_CreateAndFind(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	f := setup(t, nil, WithClock(c.now))
	ctx := context.Background()
	pid := f.project(t, f.user(t, "a@x.io"))

	created, err := f.tasks.Create(ctx, pid, domain.Input{Title: "Maquette", Priority: "HAUTE", DueDate: "2025-02-01", Status: "EN_COURS"})
	require.NoError(t, err)
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	got, err := f.tasks.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maquette", got.Title)
	assert.Equal(t, "HAUTE", got.Priority)
	assert.Equal(t, "EN_COURS", got.Status)
	assert.Equal(t, pid, got.ProjectID)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-02-01", got.DueDate.Format("2006-01-02"))
	assert.True(t, got.CreatedAt.Equal(c.t))

	t.Run("unknown project", func(t *testing.T) {
		_, err := f.tasks.Create(ctx, 9999, domain.Input{Title: "x"})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("bad due date", func(t *testing.T) {
		_, err := f.tasks.Create(ctx, pid, domain.Input{Title: "x", DueDate: "2025-13-01"})
		assert.ErrorIs(t, err, validation.ErrInvalidDate)
	})

	t.Run("blank title is accepted", func(t *testing.T) {
		_, err := f.tasks.Create(ctx, pid, domain.Input{})
		assert.NoError(t, err)
	})

	list, err := f.tasks.ListByProject(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTaskService_Update(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	f := setup(t, nil, WithClock(c.now))
	ctx := context.Background()
	pid := f.project(t, f.user(t, "a@x.io"))

	created, err := f.tasks.Create(ctx, pid, domain.Input{Title: "Maquette", Priority: "HAUTE", DueDate: "2025-02-01", Status: "EN_COURS"})
	require.NoError(t, err)

	c.t = c.t.Add(time.Hour)
	_, err = f.tasks.Update(ctx, created.ID, domain.Input{Title: "Maquette v2", Priority: "", DueDate: "", Status: "TERMINÉ"})
	require.NoError(t, err)

	got, err := f.tasks.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maquette v2", got.Title)
	assert.Equal(t, "", got.Priority)
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "EN_COURS", got.Status, "status is not changed by update")
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	_, err = f.tasks.Update(ctx, 9999, domain.Input{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	pid := f.project(t, f.user(t, "a@x.io"))

	created, err := f.tasks.Create(ctx, pid, domain.Input{Title: "t"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, created.ID))
	_, err = f.tasks.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, f.tasks.Delete(ctx, created.ID), domain.ErrTaskNotFound)
}

func TestTaskService_Counts(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	owner := f.user(t, "a@x.io")
	other := f.user(t, "b@x.io")
	p1, p2 := f.project(t, owner), f.project(t, owner)

	for _, in := range []struct {
		pid    int64
		status string
	}{
		{p1, "TERMINÉ"}, {p1, "EN_COURS"}, {p2, "TERMINÉ"}, {p2, "terminé"},
	} {
		_, err := f.tasks.Create(ctx, in.pid, domain.Input{Title: "t", Status: in.status})
		require.NoError(t, err)
	}

	n, err := f.tasks.CountByOwnerAndStatus(ctx, owner, "TERMINÉ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.tasks.CountByOwnerAndStatus(ctx, other, "TERMINÉ")
	require.NoError(t, err)
	assert.Zero(t, n)

	stats, err := f.tasks.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &domain.Stats{Completed: 2, InProgress: 1}, stats)
}

func TestTaskService_CustomStatuses(t *testing.T) {
	f := setup(t, nil, WithStatuses("DONE", "DOING"))
	ctx := context.Background()
	owner := f.user(t, "a@x.io")
	pid := f.project(t, owner)

	_, err := f.tasks.Create(ctx, pid, domain.Input{Status: "DONE"})
	require.NoError(t, err)

	stats, err := f.tasks.Stats(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Zero(t, stats.InProgress)
}

func TestTaskService_CascadeDeletesAndCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := setup(t, cache.NewStatusCache(client, time.Minute))
	ctx := context.Background()
	owner := f.user(t, "a@x.io")
	key := "taskstats:owner:" + strconv.FormatInt(owner, 10)

	var projectIDs, taskIDs []int64
	for i := 0; i < 2; i++ {
		pid := f.project(t, owner)
		projectIDs = append(projectIDs, pid)
		for j := 0; j < 3; j++ {
			task, err := f.tasks.Create(ctx, pid, domain.Input{Title: "t", Status: "TERMINÉ"})
			require.NoError(t, err)
			taskIDs = append(taskIDs, task.ID)
		}
	}

	n, err := f.tasks.CountByOwnerAndStatus(ctx, owner, "TERMINÉ")
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, "6", mr.HGet(key, "TERMINÉ"))

	t.Run("task delete refreshes the count", func(t *testing.T) {
		require.NoError(t, f.tasks.Delete(ctx, taskIDs[0]))
		n, err := f.tasks.CountByOwnerAndStatus(ctx, owner, "TERMINÉ")
		require.NoError(t, err)
		assert.Equal(t, int64(5), n)
	})

	t.Run("project delete removes its tasks", func(t *testing.T) {
		require.NoError(t, f.projects.Delete(ctx, projectIDs[0]))
		n, err := f.tasks.CountByOwnerAndStatus(ctx, owner, "TERMINÉ")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		_, err = f.tasks.FindByID(ctx, taskIDs[1])
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("user delete removes projects and tasks", func(t *testing.T) {
		require.NoError(t, f.users.Delete(ctx, owner))

		for _, id := range projectIDs {
			_, err := f.projects.FindByID(ctx, id)
			assert.ErrorIs(t, err, projectdomain.ErrProjectNotFound)
		}
		for _, id := range taskIDs {
			_, err := f.tasks.FindByID(ctx, id)
			assert.ErrorIs(t, err, domain.ErrTaskNotFound)
		}
		assert.False(t, mr.Exists(key))

		n, err := f.tasks.CountByOwnerAndStatus(ctx, owner, "TERMINÉ")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

type interleavedStore struct {
	TaskStore
	afterCount func()
}

func (s *interleavedStore) CountByOwnerAndStatus(ctx context.Context, ownerID int64, status string) (int64, error) {
	n, err := s.TaskStore.CountByOwnerAndStatus(ctx, ownerID, status)
	if s.afterCount != nil {
		hook := s.afterCount
		s.afterCount = nil
		hook()
	}
	return n, err
}

func TestTaskService_CountIgnoresWriteDuringRead(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	statsCache := cache.NewStatusCache(client, time.Minute)

	f := setup(t, statsCache)
	ctx := context.Background()
	owner := f.user(t, "a@x.io")
	pid := f.project(t, owner)

	store := &interleavedStore{TaskStore: f.tasks.repo}
	racing := NewTaskService(store, f.projects, WithCache(statsCache))

	store.afterCount = func() {
		_, err := f.tasks.Create(ctx, pid, domain.Input{Title: "t", Status: "TERMINÉ"})
		require.NoError(t, err)
	}

	n, err := racing.CountByOwnerAndStatus(ctx, owner, "TERMINÉ")
	require.NoError(t, err)
	assert.Zero(t, n, "count taken before the write")

	n, err = racing.CountByOwnerAndStatus(ctx, owner, "TERMINÉ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTaskService_UserDeleteRemovesEverything(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	owner := f.user(t, "a@x.io")
	keep := f.user(t, "b@x.io")
	keptProject := f.project(t, keep)
	keptTask, err := f.tasks.Create(ctx, keptProject, domain.Input{Title: "kept"})
	require.NoError(t, err)

	var projectIDs, taskIDs []int64
	for i := 0; i < 2; i++ {
		pid := f.project(t, owner)
		projectIDs = append(projectIDs, pid)
		for j := 0; j < 3; j++ {
			task, err := f.tasks.Create(ctx, pid, domain.Input{Title: "t", Status: "EN_COURS"})
			require.NoError(t, err)
			taskIDs = append(taskIDs, task.ID)
		}
	}

	require.NoError(t, f.users.Delete(ctx, owner))

	_, err = f.users.FindByID(ctx, owner)
	assert.ErrorIs(t, err, userdomain.ErrUserNotFound)
	for _, id := range projectIDs {
		_, err := f.projects.FindByID(ctx, id)
		assert.ErrorIs(t, err, projectdomain.ErrProjectNotFound)
	}
	for _, id := range taskIDs {
		_, err := f.tasks.FindByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	}

	_, err = f.projects.FindByID(ctx, keptProject)
	assert.NoError(t, err)
	_, err = f.tasks.FindByID(ctx, keptTask.ID)
	assert.NoError(t, err)
}

type staleProjects struct{ owner int64 }

func (p staleProjects) OwnerOf(context.Context, int64) (int64, error) { return p.owner, nil }

func TestTaskService_CreateProjectRemovedAfterLookup(t *testing.T) {
	svc := NewTaskService(repository.NewTaskRepository(databasetest.Open(t)), staleProjects{owner: 1})

	_, err := svc.Create(context.Background(), 424242, domain.Input{Title: "t"})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
