package router

import (
	"github.com/oksasatya/pfa-screening-api/internal/application"
	"github.com/oksasatya/pfa-screening-api/internal/container"
	pginfra "github.com/oksasatya/pfa-screening-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/pfa-screening-api/internal/interface/http"
	"github.com/oksasatya/pfa-screening-api/internal/router/modules"
)

// Services are the application services the HTTP modules serve.
type Services struct {
	Auth    *application.AuthService
	Results *application.ResultService
}

// BuildServices wires repositories and services from the container singletons.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	results := pginfra.NewResultRepository(container.GetPGPool())

	auth := application.NewAuthService(users, container.GetJWT(), container.GetNotifier(), logger)
	res := application.NewResultService(results, users, container.GetRedis(), cfg.ReportCacheTTL, logger).
		WithSearch(container.GetES(), cfg.ESResultsIndex).
		WithArchive(container.GetGCS(), cfg.GCSBucket)

	return Services{Auth: auth, Results: res}
}

// InitModules registers every feature module with the router registry.
// Call once during startup.
func InitModules(r *Registry, svc Services, debugMetrics bool) {
	logger := container.GetLogger()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger), svc.Auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Auth, logger)))
	r.Add(modules.NewResultModule(handlers.NewResultHandler(svc.Results, logger)))
	if debugMetrics {
		r.Add(modules.NewDebugModule())
	}
}
