package router

import (
	appuser "github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/internal/container"
	repouser "github.com/oksasatya/user-management/internal/domain/repository"
	pginfra "github.com/oksasatya/user-management/internal/infrastructure/postgres"
	"github.com/oksasatya/user-management/internal/infrastructure/search"
	handlers "github.com/oksasatya/user-management/internal/interface/http"
	"github.com/oksasatya/user-management/internal/router/modules"
	"github.com/oksasatya/user-management/pkg/helpers"
)

type UserModuleDeps struct {
	Users       repouser.UserRepository
	Roles       repouser.RoleRepository
	Service     *appuser.Service
	Auth        *appuser.AuthService
	UserHandler *handlers.UserHandler
	AuthHandler *handlers.AuthHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users := pginfra.NewUserRepository(container.GetPGPool())
	roles := pginfra.NewRoleRepository(container.GetPGPool())
	encoder := container.GetEncoder()

	service := appuser.NewService(users, roles, encoder, logger)
	if cfg.AdminAuthority != "" {
		service.AdminAuthority = cfg.AdminAuthority
	}
	// optional backends are only assigned when present so the interfaces stay nil
	if pub := container.GetRabbitPub(); pub != nil {
		service.Events = pub
	}
	if es := container.GetES(); es != nil {
		service.Index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		service.Exporter = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}

	auth := appuser.NewAuthService(
		appuser.NewAuthorityResolver(users),
		encoder,
		container.GetJWT(),
		container.GetRedis(),
		logger,
	)

	return UserModuleDeps{
		Users:       users,
		Roles:       roles,
		Service:     service,
		Auth:        auth,
		UserHandler: handlers.NewUserHandler(service, logger),
		AuthHandler: handlers.NewAuthHandler(auth, logger, cfg.CookieDomain, cfg.CookieSecure),
	}
}

// InitModules wires every feature module from the container singletons and
// adds it to the registry. Call once at startup, before RegisterAll.
func InitModules(r *Registry) {
	deps := buildUserDeps()
	cfg := container.GetConfig()

	r.Add(modules.NewAuthModule(deps.AuthHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT(), deps.Service.AdminAuthority))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
