package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/security"
	"gorm.io/gorm"
)

func TestRegister_IssuesSessionAndSanitizes(t *testing.T) {
	env := setupServices(t)

	result := env.register(t, "alice", "  Alice@X.com ")

	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, "alice@x.com", result.User.Email)
	assert.Empty(t, result.User.PasswordHash)
	assert.Nil(t, result.User.RefreshToken)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	stored, err := env.users.FindByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, result.RefreshToken, *stored.RefreshToken)
}

func TestRegister_Validation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.sessions.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrRegisterFieldsRequired)

	env.register(t, "alice", "a@x.com")
	_, err = env.sessions.Register(ctx, RegisterInput{Username: "bob", Email: "A@X.COM", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_PasswordLimitCountsBytes(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	// 40 characters but 80 bytes.
	_, err := env.sessions.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: strings.Repeat("é", 40)})
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = env.users.FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	result, err := env.sessions.Register(ctx, RegisterInput{Username: "alice", Email: "a@x.com", Password: strings.Repeat("é", 36)})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestLogin(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	registered := env.register(t, "alice", "a@x.com")

	_, err := env.sessions.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.sessions.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.sessions.Login(ctx, LoginInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrLoginFieldsRequired)

	result, err := env.sessions.Login(ctx, LoginInput{Email: "A@x.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)

	// login replaces the previous session
	_, err = env.sessions.Refresh(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)
}

func TestRefresh_RotatesToken(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	first := env.register(t, "alice", "a@x.com")

	second, err := env.sessions.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Empty(t, second.User.PasswordHash)

	// the old token is single-use
	_, err = env.sessions.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)

	_, err = env.sessions.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_ConcurrentSingleWinner(t *testing.T) {
	env := setupServices(t)
	first := env.register(t, "alice", "a@x.com")

	const attempts = 4
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.sessions.Refresh(context.Background(), first.RefreshToken)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrRefreshTokenMismatch)
	}
	assert.Equal(t, 1, succeeded)
}

func TestRefresh_Failures(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	registered := env.register(t, "alice", "a@x.com")

	_, err := env.sessions.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrRefreshTokenMissing)

	_, err = env.sessions.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)

	// an access token is signed with the wrong secret for refresh
	_, err = env.sessions.Refresh(ctx, registered.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshTokenInvalid)

	expired := signExpired(t, registered.User.ID, testRefreshSecret)
	_, err = env.sessions.Refresh(ctx, expired)
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	registered := env.register(t, "alice", "a@x.com")

	env.sessions.Logout(ctx, "")
	env.sessions.Logout(ctx, "garbage")

	env.sessions.Logout(ctx, registered.RefreshToken)

	stored, err := env.users.FindByID(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)

	_, err = env.sessions.Refresh(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)
}

func TestResolveAccessToken(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	registered := env.register(t, "alice", "a@x.com")

	user, err := env.sessions.ResolveAccessToken(ctx, registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Nil(t, user.RefreshToken)

	_, err = env.sessions.ResolveAccessToken(ctx, "")
	assert.ErrorIs(t, err, ErrAccessTokenMissing)

	_, err = env.sessions.ResolveAccessToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)

	_, err = env.sessions.ResolveAccessToken(ctx, signExpired(t, registered.User.ID, testAccessSecret))
	assert.ErrorIs(t, err, ErrAccessTokenExpired)

	orphan, err := env.tokens.IssueAccessToken("01HZZZZZZZZZZZZZZZZZZZZZZZ", "", "")
	require.NoError(t, err)
	_, err = env.sessions.ResolveAccessToken(ctx, orphan)
	assert.ErrorIs(t, err, ErrIdentityUserMissing)
}

func TestCurrentUser(t *testing.T) {
	env := setupServices(t)
	registered := env.register(t, "alice", "a@x.com")

	_, err := env.sessions.CurrentUser(nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	user, err := env.sessions.CurrentUser(registered.User)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
}

func signExpired(t *testing.T, userID, secret string) string {
	t.Helper()

	past := time.Now().Add(-time.Hour)
	claims := security.Claims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
