package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/models"
)

const (
	// ContextKeyUser holds the resolved *models.User.
	ContextKeyUser = "currentUser"

	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// IdentityResolver turns an access token into a sanitized user.
type IdentityResolver interface {
	ResolveAccessToken(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth resolves the caller from a bearer token, falling back to the
// access token cookie, and aborts with the resolver's error otherwise.
func RequireAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(AccessTokenCookie)
		}

		user, err := resolver.ResolveAccessToken(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// CurrentUser retrieves the caller resolved by RequireAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
