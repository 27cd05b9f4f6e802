package bootstrap

import (
	"github.com/tsirionantsoa/taskhub/config"
	authservice "github.com/tsirionantsoa/taskhub/internal/auth/service"
	"github.com/tsirionantsoa/taskhub/internal/credential"
	projectrepo "github.com/tsirionantsoa/taskhub/internal/projects/repository"
	projectservice "github.com/tsirionantsoa/taskhub/internal/projects/service"
	"github.com/tsirionantsoa/taskhub/internal/seed"
	"github.com/tsirionantsoa/taskhub/internal/tasks/cache"
	taskrepo "github.com/tsirionantsoa/taskhub/internal/tasks/repository"
	taskservice "github.com/tsirionantsoa/taskhub/internal/tasks/service"
	userrepo "github.com/tsirionantsoa/taskhub/internal/users/repository"
	userservice "github.com/tsirionantsoa/taskhub/internal/users/service"
)

type Services struct {
	Users    *userservice.UserService
	Projects *projectservice.ProjectService
	Tasks    *taskservice.TaskService
	Auth     *authservice.AuthService
	Seeder   *seed.Seeder
}

// NewServices wires repositories, the status cache and the services on top of stores.
func NewServices(cfg *config.Config, stores *Stores) *Services {
	var stats *cache.StatusCache
	if stores.Redis != nil {
		stats = cache.NewStatusCache(stores.Redis, cfg.Redis.StatsTTL)
	}

	hasher := credential.NewBcryptHasher(cfg.Security.BcryptCost)

	users := userservice.NewUserService(
		userrepo.NewUserRepository(stores.DB), hasher,
		userservice.WithStatsInvalidator(stats),
	)
	projects := projectservice.NewProjectService(
		projectrepo.NewProjectRepository(stores.DB), users,
		projectservice.WithStatsInvalidator(stats),
	)
	tasks := taskservice.NewTaskService(
		taskrepo.NewTaskRepository(stores.DB), projects,
		taskservice.WithCache(stats),
		taskservice.WithStatuses(cfg.Tasks.StatusDone, cfg.Tasks.StatusInProgress),
	)

	return &Services{
		Users:    users,
		Projects: projects,
		Tasks:    tasks,
		Auth:     authservice.NewAuthService(users, hasher),
		Seeder:   seed.New(users),
	}
}
