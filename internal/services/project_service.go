package services

import (
	"context"
	"fmt"
	"strings"

	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
)

var (
	ErrProjectNameRequired = apierrors.InvalidInput("Project name is required")
	ErrInvalidProjectID    = apierrors.InvalidInput("Invalid project id")
	ErrProjectNotFound     = apierrors.NotFound("Project not found")
	ErrProjectForbidden    = apierrors.Forbidden("You do not have access to this project")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projects repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     string
}

// CreateProject creates a project owned by, and with the sole member, OwnerID.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	if input.OwnerID == "" {
		return nil, ErrNotAuthenticated
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projects.FindDetailedByID(ctx, project.ID)
}

// ListProjects returns the projects the user is a member of, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	projects, err := s.projects.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a populated project if userID is a member.
func (s *ProjectService) GetProject(ctx context.Context, projectID, userID string) (*models.Project, error) {
	if _, err := authorizeProject(ctx, s.projects, projectID, userID, ErrProjectForbidden); err != nil {
		return nil, err
	}

	project, err := s.projects.FindDetailedByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}
