package routes

import (
	"github.com/gin-gonic/gin"

	authhttp "github.com/tsirionantsoa/taskhub/internal/auth/http"
	projecthttp "github.com/tsirionantsoa/taskhub/internal/projects/http"
	taskhttp "github.com/tsirionantsoa/taskhub/internal/tasks/http"
	userhttp "github.com/tsirionantsoa/taskhub/internal/users/http"
)

type APIDeps struct {
	Auth       *authhttp.Handler
	Users      *userhttp.Handler
	Projects   *projecthttp.Handler
	Tasks      *taskhttp.Handler
	LoginGuard gin.HandlerFunc
}

// RegisterAPI mounts every resource under /api.
func RegisterAPI(r gin.IRouter, dep APIDeps) {
	api := r.Group("/api")

	var guards []gin.HandlerFunc
	if dep.LoginGuard != nil {
		guards = append(guards, dep.LoginGuard)
	}
	dep.Auth.Register(api.Group("/auth"), guards...)

	dep.Users.Register(api.Group("/utilisateurs"))
	dep.Projects.Register(api.Group("/projets"))
	dep.Tasks.Register(api.Group("/taches"))
}
