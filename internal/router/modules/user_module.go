package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-management/internal/container"
	handlers "github.com/oksasatya/user-management/internal/interface/http"
	"github.com/oksasatya/user-management/internal/interface/middleware"
	"github.com/oksasatya/user-management/pkg/helpers"
)

// UserModule wires account routes under the given RouterGroup (usually /api)
// Self or admin: GET /users/:id, POST /users/:id/password
// Admin only: user CRUD, roles, search and export
type UserModule struct {
	Handler        *handlers.UserHandler
	JWT            *helpers.JWTManager
	AdminAuthority string
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, adminAuthority string) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, AdminAuthority: adminAuthority}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, m.JWT))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowAuthority(m.AdminAuthority)),
	)

	admin := auth.Group("/")
	admin.Use(middleware.RequireAuthority(m.AdminAuthority))
	{
		admin.GET("/users", m.Handler.List)
		admin.POST("/users", m.Handler.Create)
		admin.GET("/users/search", m.Handler.Search)
		admin.POST("/users/export", m.Handler.Export)
		admin.PUT("/users/:id", m.Handler.Update)
		admin.DELETE("/users/:id", m.Handler.Delete)
		admin.GET("/roles", m.Handler.Roles)
	}

	passwordLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByUserID(), nil)
	auth.GET("/users/:id", m.Handler.Get)
	auth.POST("/users/:id/password", passwordLimiter, m.Handler.ChangePassword)
}
