package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/security"
	"github.com/yukikurage/project-management-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db      *gorm.DB
	router  *gin.Engine
	users   repository.UserRepository
	metrics *metrics.Registry
}

func setupTestEnv(t *testing.T, cookies CookiePolicy) *testEnv {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		database.Close(db)
	})

	users := repository.NewUserRepository(db, security.NewBcryptHasher(bcrypt.MinCost))
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := security.NewTokenIssuer(security.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	sessions := services.NewSessionService(users, tokens, logging.Discard())
	reg := metrics.NewRegistry()

	authHandler := NewAuthHandler(sessions, cookies, reg)
	projectHandler := NewProjectHandler(services.NewProjectService(projectRepo))
	taskHandler := NewTaskHandler(services.NewTaskService(taskRepo, projectRepo))
	healthHandler := NewHealthHandler(db)
	requireAuth := middleware.RequireAuth(sessions)

	r := gin.New()
	r.Use(middleware.ErrorHandler(logging.Discard(), false))
	r.GET("/healthcheck", healthHandler.Check)
	r.POST("/user/register", authHandler.Register)
	r.POST("/user/login", authHandler.Login)
	r.POST("/user/refresh", authHandler.Refresh)
	r.GET("/user/me", requireAuth, authHandler.Me)
	r.POST("/user/logout", requireAuth, authHandler.Logout)
	r.POST("/projects", requireAuth, projectHandler.CreateProject)
	r.GET("/projects", requireAuth, projectHandler.ListProjects)
	r.GET("/projects/:id", requireAuth, projectHandler.GetProject)
	r.POST("/projects/:id/tasks", requireAuth, taskHandler.CreateTask)
	r.GET("/projects/:id/tasks", requireAuth, taskHandler.ListTasks)
	r.PATCH("/projects/:id/tasks/:taskId", requireAuth, taskHandler.UpdateTask)
	r.DELETE("/projects/:id/tasks/:taskId", requireAuth, taskHandler.DeleteTask)

	return &testEnv{db: db, router: r, users: users, metrics: reg}
}

type envelope struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.Equal(t, w.Code, env.StatusCode)
	return w, env
}

// register creates a user and returns its access cookie.
func (e *testEnv) register(t *testing.T, username, email string) (*http.Cookie, string) {
	t.Helper()

	w, env := e.do(t, http.MethodPost, "/user/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return findCookie(w, middleware.AccessTokenCookie), data.User.ID
}

func (e *testEnv) createProject(t *testing.T, access *http.Cookie, name string) string {
	t.Helper()

	w, env := e.do(t, http.MethodPost, "/projects", map[string]string{"project_name": name}, access)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.ID
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func devCookies() CookiePolicy {
	return NewCookiePolicy(false, 15*time.Minute, 7*24*time.Hour)
}
