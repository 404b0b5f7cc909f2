package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the limiter for loopback and private addresses.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowAuthority bypasses the limiter for principals holding authority.
func AllowAuthority(authority string) AllowFunc {
	return func(c *gin.Context) bool {
		return PrincipalFrom(c).HasAuthority(authority)
	}
}
