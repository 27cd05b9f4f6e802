package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tsirionantsoa/taskhub/config"
	httpapi "github.com/tsirionantsoa/taskhub/internal/api/http"
	"github.com/tsirionantsoa/taskhub/internal/api/http/routes"
	authhttp "github.com/tsirionantsoa/taskhub/internal/auth/http"
	"github.com/tsirionantsoa/taskhub/internal/platform/logging"
	"github.com/tsirionantsoa/taskhub/internal/platform/middleware"
	projecthttp "github.com/tsirionantsoa/taskhub/internal/projects/http"
	taskhttp "github.com/tsirionantsoa/taskhub/internal/tasks/http"
	userhttp "github.com/tsirionantsoa/taskhub/internal/users/http"
)

const ServiceName = "taskhub"

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

type RouterDeps struct {
	Config   *config.Config
	Services *Services
	DB       httpapi.Pinger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logging.NewLogger(context.Background()).LogWarnf("router.proxies", "ignoring TRUSTED_PROXIES: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	healthHandler := httpapi.NewHealthHandler(ServiceName, cfg.App.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	limiter := middleware.NewIPRateLimiter(cfg.Server.LoginRatePerMinute, cfg.Server.LoginBurst)

	svc := dep.Services
	routes.RegisterAPI(r, routes.APIDeps{
		Auth:       authhttp.New(svc.Auth),
		Users:      userhttp.New(svc.Users),
		Projects:   projecthttp.New(svc.Projects),
		Tasks:      taskhttp.New(svc.Tasks),
		LoginGuard: limiter.Middleware(),
	})

	return r
}
