package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired     = apierrors.InvalidInput("Task title is required")
	ErrTitleEmpty        = apierrors.InvalidInput("Task title cannot be empty")
	ErrInvalidID         = apierrors.InvalidInput("Invalid id")
	ErrInvalidAssigneeID = apierrors.InvalidInput("Invalid assignee id")
	ErrAssigneeNotMember = apierrors.InvalidInput("Assignee must be a project member")
	ErrInvalidStatus     = apierrors.InvalidInput("Invalid task status", "status must be one of: todo, in-progress, done")
	ErrInvalidPriority   = apierrors.InvalidInput("Invalid task priority", "priority must be one of: low, medium, high")
	ErrTaskNotFound      = apierrors.NotFound("Task not found")

	ErrTaskCreateForbidden = apierrors.Forbidden("You are not allowed to create tasks in this project")
	ErrTaskViewForbidden   = apierrors.Forbidden("You are not allowed to view tasks of this project")
	ErrTaskUpdateForbidden = apierrors.Forbidden("Not authorized to update tasks in this project")
	ErrTaskDeleteForbidden = apierrors.Forbidden("Not authorized to delete tasks in this project")
)

// TaskService handles task business logic. Every operation requires the
// actor to be a member of the parent project.
type TaskService struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks repository.TaskRepository, projects repository.ProjectRepository) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   string
	CreatorID   string
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	AssigneeID  *string
	DueDate     *time.Time
}

// UpdateTaskInput is a partial update: nil fields are left unchanged.
// ClearAssignee and ClearDueDate record an explicit null.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *string
	ClearAssignee bool
	DueDate       *time.Time
	ClearDueDate  bool
}

// CreateTask creates a task in a project the creator belongs to
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	project, err := authorizeProject(ctx, s.projects, input.ProjectID, input.CreatorID, ErrTaskCreateForbidden)
	if err != nil {
		return nil, err
	}

	assigneeID := normalizeAssignee(input.AssigneeID)
	if assigneeID != nil {
		if err := validateAssignee(project, *assigneeID); err != nil {
			return nil, err
		}
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   project.ID,
		AssigneeID:  assigneeID,
		CreatorID:   input.CreatorID,
		DueDate:     input.DueDate,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.tasks.FindByID(ctx, task.ID)
}

// ListTasks returns a project's tasks, newest first
func (s *TaskService) ListTasks(ctx context.Context, projectID, userID string) ([]models.Task, error) {
	if _, err := authorizeProject(ctx, s.projects, projectID, userID, ErrTaskViewForbidden); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update. All validation happens before any
// field is changed, so a rejected update leaves the task as it was.
func (s *TaskService) UpdateTask(ctx context.Context, projectID, taskID, userID string, input UpdateTaskInput) (*models.Task, error) {
	if !utils.ValidID(projectID) || !utils.ValidID(taskID) {
		return nil, ErrInvalidID
	}

	project, err := authorizeProject(ctx, s.projects, projectID, userID, ErrTaskUpdateForbidden)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindInProject(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	assigneeID := normalizeAssignee(input.AssigneeID)
	if assigneeID != nil {
		if err := validateAssignee(project, *assigneeID); err != nil {
			return nil, err
		}
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, ErrTitleEmpty
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearAssignee || (input.AssigneeID != nil && assigneeID == nil) {
		task.AssigneeID = nil
	} else if assigneeID != nil {
		task.AssigneeID = assigneeID
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.tasks.FindByID(ctx, task.ID)
}

// DeleteTask deletes a task of a project the actor belongs to
func (s *TaskService) DeleteTask(ctx context.Context, projectID, taskID, userID string) error {
	if !utils.ValidID(projectID) || !utils.ValidID(taskID) {
		return ErrInvalidID
	}

	if _, err := authorizeProject(ctx, s.projects, projectID, userID, ErrTaskDeleteForbidden); err != nil {
		return err
	}

	deleted, err := s.tasks.DeleteInProject(ctx, projectID, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

// normalizeAssignee maps a blank assignee to nil.
func normalizeAssignee(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateAssignee(project *models.Project, assigneeID string) error {
	if !utils.ValidID(assigneeID) {
		return ErrInvalidAssigneeID
	}
	if !IsMember(project, assigneeID) {
		return ErrAssigneeNotMember
	}
	return nil
}
