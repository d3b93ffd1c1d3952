package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/security"
	"gorm.io/gorm"
)

var (
	ErrRegisterFieldsRequired = apierrors.InvalidInput("username, email and password are required")
	ErrLoginFieldsRequired    = apierrors.InvalidInput("email and password are required")
	ErrPasswordTooLong        = apierrors.InvalidInput("Password is too long", fmt.Sprintf("password must be at most %d bytes", security.MaxPasswordBytes))
	ErrEmailTaken             = apierrors.Conflict("User with that email already exists")
	ErrUserNotFound           = apierrors.NotFound("User not found")
	ErrInvalidCredentials     = apierrors.Unauthorized("Invalid credentials")
	ErrNotAuthenticated       = apierrors.Unauthorized("Unauthorized")
	ErrTokenGeneration        = apierrors.New(apierrors.KindInternal, "Something went wrong while generating access token")

	ErrRefreshTokenMissing  = apierrors.Unauthorized("No refresh token provided")
	ErrRefreshTokenExpired  = apierrors.Unauthorized("Refresh token expired")
	ErrRefreshTokenInvalid  = apierrors.Unauthorized("Invalid refresh token")
	ErrRefreshTokenMismatch = apierrors.Unauthorized("Refresh token mismatch")

	ErrAccessTokenMissing  = apierrors.Unauthorized("Unauthorized: no token provided")
	ErrAccessTokenExpired  = apierrors.Unauthorized("Access token expired")
	ErrAccessTokenInvalid  = apierrors.Unauthorized("Invalid access token")
	ErrIdentityUserMissing = apierrors.Unauthorized("Unauthorized: user not found")
)

// SessionService handles registration, login and the refresh token lifecycle.
// Each user has at most one live refresh token; issuing a new one replaces it.
type SessionService struct {
	users  repository.UserRepository
	tokens *security.TokenIssuer
	log    logrus.FieldLogger
}

// NewSessionService creates a new SessionService.
func NewSessionService(users repository.UserRepository, tokens *security.TokenIssuer, log logrus.FieldLogger) *SessionService {
	return &SessionService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

// AuthResult is a sanitized user plus a freshly issued token pair.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and starts a session for it.
func (s *SessionService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := NormalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrRegisterFieldsRequired
	}
	if len(input.Password) > security.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
	}
	if err := s.users.Create(ctx, user, input.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, security.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return s.startSession(ctx, user)
}

// Login verifies credentials and starts a new session, replacing any previous one.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.users.VerifyPassword(user, input.Password) {
		s.log.WithField("user_id", user.ID).Warn("login rejected: bad password")
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// Refresh exchanges the stored refresh token for a new token pair. The
// presented token must equal the stored one; it is then replaced, so a
// token can be used once.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenMissing
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrRefreshTokenExpired
		}
		return nil, ErrRefreshTokenInvalid
	}

	user, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		s.log.WithField("user_id", user.ID).Warn("refresh rejected: token does not match stored token")
		return nil, ErrRefreshTokenMismatch
	}

	accessToken, nextRefresh, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	rotated, err := s.users.RotateRefreshToken(ctx, user.ID, refreshToken, nextRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !rotated {
		// Lost a race against a concurrent refresh or logout.
		return nil, ErrRefreshTokenMismatch
	}

	return &AuthResult{
		User:         sanitize(user),
		AccessToken:  accessToken,
		RefreshToken: nextRefresh,
	}, nil
}

// Logout revokes the stored refresh token when the presented one verifies.
// It never fails: verification and store errors are logged and dropped.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.log.WithError(err).Debug("logout: ignoring unverifiable refresh token")
		return
	}

	if err := s.users.ClearRefreshToken(ctx, claims.ID); err != nil {
		s.log.WithError(err).WithField("user_id", claims.ID).Warn("logout: failed to clear refresh token")
	}
}

// CurrentUser returns the identity resolved upstream.
func (s *SessionService) CurrentUser(identity *models.User) (*models.User, error) {
	if identity == nil {
		return nil, ErrNotAuthenticated
	}
	return identity, nil
}

// ResolveAccessToken verifies an access token and loads its sanitized subject.
func (s *SessionService) ResolveAccessToken(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, ErrAccessTokenMissing
	}

	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrAccessTokenExpired
		}
		return nil, ErrAccessTokenInvalid
	}

	user, err := s.users.FindPublicByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityUserMissing
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *SessionService) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, refreshToken, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, ErrTokenGeneration.WithCause(err)
	}

	return &AuthResult{
		User:         sanitize(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *SessionService) issuePair(user *models.User) (string, string, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, user.Username)
	if err != nil {
		return "", "", ErrTokenGeneration.WithCause(err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return "", "", ErrTokenGeneration.WithCause(err)
	}
	return accessToken, refreshToken, nil
}

// sanitize returns a copy of user without password hash or refresh token.
func sanitize(user *models.User) *models.User {
	clean := *user
	clean.PasswordHash = ""
	clean.RefreshToken = nil
	return &clean
}
