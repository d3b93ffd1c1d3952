package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	tokens   *security.TokenIssuer
	sessions *SessionService
	projects *ProjectService
	tasks    *TaskService
}

func setupServices(t *testing.T) *testEnv {
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
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})

	return &testEnv{
		db:       db,
		users:    users,
		tokens:   tokens,
		sessions: NewSessionService(users, tokens, logging.Discard()),
		projects: NewProjectService(projectRepo),
		tasks:    NewTaskService(taskRepo, projectRepo),
	}
}

func (e *testEnv) register(t *testing.T, username, email string) *AuthResult {
	t.Helper()

	result, err := e.sessions.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "pw123456",
	})
	require.NoError(t, err)
	return result
}

func (e *testEnv) project(t *testing.T, ownerID, name string) *models.Project {
	t.Helper()

	project, err := e.projects.CreateProject(context.Background(), CreateProjectInput{
		Name:    name,
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	return project
}

func strPtr(s string) *string { return &s }
