package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/security"
)

// CookiePolicy controls how the token cookies are emitted.
type CookiePolicy struct {
	Secure        bool
	SameSite      http.SameSite
	AccessMaxAge  time.Duration
	RefreshMaxAge time.Duration
}

// NewCookiePolicy builds the policy for the environment. Cookies are cross-site
// capable (SameSite=None, Secure) only in production. Each cookie lives as long
// as its token; non-positive lifetimes fall back to the default token lifetimes.
func NewCookiePolicy(production bool, accessTTL, refreshTTL time.Duration) CookiePolicy {
	if accessTTL <= 0 {
		accessTTL = security.DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = security.DefaultRefreshTTL
	}
	policy := CookiePolicy{
		Secure:        production,
		SameSite:      http.SameSiteLaxMode,
		AccessMaxAge:  accessTTL,
		RefreshMaxAge: refreshTTL,
	}
	if production {
		policy.SameSite = http.SameSiteNoneMode
	}
	return policy
}

func (p CookiePolicy) setTokens(c *gin.Context, accessToken, refreshToken string) {
	p.set(c, middleware.AccessTokenCookie, accessToken, int(p.AccessMaxAge/time.Second))
	p.set(c, middleware.RefreshTokenCookie, refreshToken, int(p.RefreshMaxAge/time.Second))
}

func (p CookiePolicy) clearTokens(c *gin.Context) {
	p.set(c, middleware.AccessTokenCookie, "", -1)
	p.set(c, middleware.RefreshTokenCookie, "", -1)
}

func (p CookiePolicy) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(p.SameSite)
	c.SetCookie(name, value, maxAge, "/", "", p.Secure, true)
}
