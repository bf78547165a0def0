package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/strytechcompany/time2cart/internal/domain"
)

// Identity is established upstream by the auth gateway, which forwards the
// authenticated subject in these headers.
const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"

	callerKey = "caller"
)

func requireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(headerUserID))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}
		role := strings.TrimSpace(c.GetHeader(headerUserRole))
		if role != domain.RoleAdmin {
			role = domain.RoleUser
		}
		c.Set(callerKey, domain.Caller{UserID: userID, Role: role})
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !callerFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func callerFrom(c *gin.Context) domain.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return domain.Caller{}
	}
	caller, _ := v.(domain.Caller)
	return caller
}
