package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-management/pkg/response"
)

// Registry collects API-wide middleware and feature modules, then mounts them
// under /api in one pass.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

// NewRegistry also installs envelope-shaped 404/405 handlers and an
// unauthenticated GET /healthz on the engine.
func NewRegistry(engine *gin.Engine) *Registry {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, "route not found", nil)
	})
	engine.NoMethod(func(c *gin.Context) {
		response.Error[any](c, http.StatusMethodNotAllowed, "method not allowed", nil)
	})
	engine.GET("/healthz", func(c *gin.Context) {
		response.Success[any](c, http.StatusOK, map[string]string{"status": "ok"}, "healthy", nil)
	})
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) { r.middlewares = append(r.middlewares, mw...) }

func (r *Registry) Add(mod ...Module) { r.modules = append(r.modules, mod...) }

// RegisterAll must run after every Use and Add.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
