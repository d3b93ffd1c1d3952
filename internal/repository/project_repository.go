package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create inserts the project and the owner's membership in one transaction.
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		owner := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    project.OwnerID,
			JoinedAt:  time.Now(),
		}
		if err := tx.Omit(clause.Associations).Create(&owner).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProjectMember, err)
		}

		project.Members = []models.ProjectMember{owner}
		return nil
	})
}

// FindByID finds a project by ID with its member ids
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindDetailedByID finds a project with owner and member users populated
func (r *GormProjectRepository) FindDetailedByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).
		Preload("Owner", publicUser).
		Preload("Members.User", publicUser).
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByMember lists all projects the user is a member of
func (r *GormProjectRepository) ListByMember(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	memberOf := r.db.Model(&models.ProjectMember{}).
		Select("project_id").
		Where("user_id = ?", userID)

	if err := r.db.WithContext(ctx).
		Where("id IN (?)", memberOf).
		Order("created_at DESC").
		Order("id DESC").
		Preload("Owner", publicUser).
		Preload("Members.User", publicUser).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
