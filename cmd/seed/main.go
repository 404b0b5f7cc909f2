package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management/config"
	"github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/internal/domain/entity"
	pginfra "github.com/oksasatya/user-management/internal/infrastructure/postgres"
	"github.com/oksasatya/user-management/pkg/helpers"
)

// seed makes sure the default roles and an administrator account exist.
// Running it twice is harmless.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2, MinConns: 1, MaxConnLife: cfg.DBMaxConnLife})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	roles := pginfra.NewRoleRepository(pool)
	if err := roles.Ensure(ctx, []entity.Role{
		{Name: "ADMIN", Description: cfg.AdminAuthority},
		{Name: "USER", Description: "ROLE_USER"},
	}); err != nil {
		log.Fatalf("failed to ensure roles: %v", err)
	}

	all, err := roles.FindAll(ctx)
	if err != nil {
		log.Fatalf("failed to list roles: %v", err)
	}
	var adminRoles []entity.Role
	for _, r := range all {
		if r.Authority() == cfg.AdminAuthority {
			adminRoles = append(adminRoles, r)
		}
	}

	svc := application.NewService(pginfra.NewUserRepository(pool), roles, helpers.NewBcryptEncoder(cfg.BcryptCost), logger)
	u, err := svc.Create(ctx, &entity.User{
		Username:        cfg.SeedAdminUsername,
		Password:        cfg.SeedAdminPassword,
		ConfirmPassword: cfg.SeedAdminPassword,
		Email:           cfg.SeedAdminEmail,
		FirstName:       "System",
		LastName:        "Administrator",
		Roles:           adminRoles,
	})
	var appErr *application.AppError
	switch {
	case errors.As(err, &appErr) && errors.Is(err, application.ErrFieldValidation) && appErr.Field == "username":
		logger.WithField("username", cfg.SeedAdminUsername).Info("admin user already present")
	case err != nil:
		log.Fatalf("failed to seed admin: %v", err)
	default:
		helpers.LogInfo(logger, "seeded admin user", logrus.Fields{"user_id": u.ID, "username": u.Username})
	}
}
