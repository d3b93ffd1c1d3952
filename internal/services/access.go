package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// IsMember reports whether userID is in the project's member set.
func IsMember(project *models.Project, userID string) bool {
	if project == nil {
		return false
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false
	}
	for _, m := range project.Members {
		if strings.TrimSpace(m.UserID) == userID {
			return true
		}
	}
	return false
}

// authorizeProject loads a project and requires userID to be a member.
// forbidden is the error returned to non-members.
func authorizeProject(ctx context.Context, projects repository.ProjectRepository, projectID, userID string, forbidden error) (*models.Project, error) {
	if !utils.ValidID(projectID) {
		return nil, ErrInvalidProjectID
	}

	project, err := projects.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !IsMember(project, userID) {
		return nil, forbidden
	}
	return project, nil
}
