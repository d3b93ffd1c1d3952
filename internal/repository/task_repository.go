package repository

import (
	"context"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with assignee and creator populated
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.populated(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindInProject finds a task scoped to its parent project
func (r *GormTaskRepository) FindInProject(ctx context.Context, projectID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists the tasks of a project, newest first
func (r *GormTaskRepository) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.populated(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task. Related users are never written through a task.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// DeleteInProject soft deletes a task scoped to its parent project
func (r *GormTaskRepository) DeleteInProject(ctx context.Context, projectID, taskID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Delete(&models.Task{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormTaskRepository) populated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Assignee", publicUser).
		Preload("Creator", publicUser)
}
