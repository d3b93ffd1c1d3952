package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("user repository: email already registered")
	// ErrCreateProject is returned when creating a project fails inside its transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateProjectMember is returned when adding the owner as a member fails.
	ErrCreateProjectMember = errors.New("project repository: create project member failed")
)

// UserRepository is the credential store. It is the only component that
// sees password hashes and stored refresh tokens.
type UserRepository interface {
	// Create hashes password and persists user
	Create(ctx context.Context, user *models.User, password string) error

	// FindByID finds a user by ID, including credential fields
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindPublicByID finds a user by ID without password hash or refresh token
	FindPublicByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by normalized email, including credential fields
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// VerifyPassword checks a plaintext password against the stored hash
	VerifyPassword(user *models.User, password string) bool

	// UpdatePassword rehashes only when the password actually changes
	UpdatePassword(ctx context.Context, id, password string) (bool, error)

	// SetRefreshToken overwrites the stored refresh token
	SetRefreshToken(ctx context.Context, id, token string) error

	// RotateRefreshToken replaces current with next only if current is still stored
	RotateRefreshToken(ctx context.Context, id, current, next string) (bool, error)

	// ClearRefreshToken removes the stored refresh token
	ClearRefreshToken(ctx context.Context, id string) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and its owner membership atomically
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project with member ids loaded
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// FindDetailedByID finds a project with owner and members populated
	FindDetailedByID(ctx context.Context, id string) (*models.Project, error)

	// ListByMember lists projects the user belongs to, newest first
	ListByMember(ctx context.Context, userID string) ([]models.Project, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task with assignee and creator populated
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// FindInProject finds a task only if it belongs to projectID
	FindInProject(ctx context.Context, projectID, taskID string) (*models.Task, error)

	// ListByProject lists tasks of a project, newest first
	ListByProject(ctx context.Context, projectID string) ([]models.Task, error)

	// Update persists the task's own columns
	Update(ctx context.Context, task *models.Task) error

	// DeleteInProject deletes a task only if it belongs to projectID
	DeleteInProject(ctx context.Context, projectID, taskID string) (bool, error)
}

// publicUser limits a user preload to fields safe to expose.
func publicUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "email", "created_at", "updated_at")
}
