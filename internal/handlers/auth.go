package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/response"
	"github.com/yukikurage/project-management-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	sessions *services.SessionService
	cookies  CookiePolicy
	metrics  *metrics.Registry
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *services.SessionService, cookies CookiePolicy, reg *metrics.Registry) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		cookies:  cookies,
		metrics:  reg,
	}
}

// Register creates a user and starts its session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.sessions.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.metrics.SessionsStarted.Inc()
	h.cookies.setTokens(c, result.AccessToken, result.RefreshToken)
	response.Created(c, dto.SessionDTO{
		User:        dto.ToUserDTO(*result.User),
		AccessToken: result.AccessToken,
	}, "User registered successfully")
}

// Login authenticates a user and replaces its session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.metrics.SessionsStarted.Inc()
	h.cookies.setTokens(c, result.AccessToken, result.RefreshToken)
	response.OK(c, dto.SessionDTO{
		User:        dto.ToUserDTO(*result.User),
		AccessToken: result.AccessToken,
	}, "User logged in successfully")
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, _ := middleware.CurrentUser(c)
	user, err := h.sessions.CurrentUser(identity)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, dto.CurrentUserDTO{User: dto.ToUserDTO(*user)}, "User fetched")
}

// Refresh rotates the token pair presented in the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)

	result, err := h.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		h.metrics.RefreshesRejected.WithLabelValues(refreshRejectReason(err)).Inc()
		_ = c.Error(err)
		return
	}

	h.metrics.TokensRefreshed.Inc()
	h.cookies.setTokens(c, result.AccessToken, result.RefreshToken)
	response.OK(c, dto.RefreshDTO{AccessToken: result.AccessToken}, "Token refreshed")
}

// Logout revokes the stored refresh token and clears both cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	h.sessions.Logout(c.Request.Context(), token)

	h.cookies.clearTokens(c)
	response.OK(c, nil, "Logged out successfully")
}

func refreshRejectReason(err error) string {
	switch {
	case errors.Is(err, services.ErrRefreshTokenMissing):
		return "missing"
	case errors.Is(err, services.ErrRefreshTokenExpired):
		return "expired"
	case errors.Is(err, services.ErrRefreshTokenInvalid):
		return "invalid"
	case errors.Is(err, services.ErrRefreshTokenMismatch):
		return "mismatch"
	case errors.Is(err, services.ErrUserNotFound):
		return "user_not_found"
	default:
		return "error"
	}
}
