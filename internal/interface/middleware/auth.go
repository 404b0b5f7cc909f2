package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/pkg/helpers"
	"github.com/oksasatya/user-management/pkg/response"
)

const (
	CtxPrincipalKey = "principal"
	CtxUserIDKey    = "userID"
)

// Auth validates the access token (cookie or bearer header) and, when Redis
// is configured, requires the token's session to still be active. The
// resolved principal is stored under CtxPrincipalKey.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		principal := &entity.Principal{
			UserID:      claims.UserID,
			Username:    claims.Username,
			Authorities: entity.NewAuthoritySet(claims.Authorities...),
		}
		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), helpers.SessionKey(claims.UserID)).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
			if p, ok := application.PrincipalFromSession(data); ok {
				principal = p
			}
		}

		c.Set(CtxPrincipalKey, principal)
		c.Set(CtxUserIDKey, principal.UserID)
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal, or nil.
func PrincipalFrom(c *gin.Context) *entity.Principal {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*entity.Principal)
	return p
}

// RequireAuthority aborts with 403 unless the principal holds authority.
func RequireAuthority(authority string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !PrincipalFrom(c).HasAuthority(authority) {
			response.Error[any](c, http.StatusForbidden, "access denied", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	token, err := c.Cookie(helpers.AccessCookie)
	if err != nil {
		return ""
	}
	return token
}
