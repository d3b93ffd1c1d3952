package dto

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// CreateProjectRequest is the body of POST /projects
type CreateProjectRequest struct {
	Name        string `json:"project_name" binding:"max=255"`
	Description string `json:"description"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"project_name"`
	Description string       `json:"description"`
	Owner       UserRefDTO   `json:"owner"`
	Members     []UserRefDTO `json:"members"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Owner:       userRef(project.Owner, project.OwnerID),
		Members:     make([]UserRefDTO, len(project.Members)),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	for i, member := range project.Members {
		dto.Members[i] = userRef(member.User, member.UserID)
	}

	return dto
}

// ToProjectDTOs converts a slice of projects, never returning nil
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return items
}
