package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// ErrInvalidDueDate is returned for a dueDate that is neither RFC 3339 nor YYYY-MM-DD.
var ErrInvalidDueDate = errors.New("dueDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")

// CreateTaskRequest is the body of POST /projects/:id/tasks
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"max=255"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	Assignee    *string `json:"assignee"`
	DueDate     *string `json:"dueDate"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Project     string              `json:"project"`
	Assignee    *UserRefDTO         `json:"assignee"`
	CreatedBy   UserRefDTO          `json:"createdBy"`
	DueDate     *time.Time          `json:"dueDate"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ParseDueDate accepts an RFC 3339 timestamp or a plain date (midnight UTC).
func ParseDueDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return &t, nil
	}
	return nil, ErrInvalidDueDate
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		Project:     task.ProjectID,
		CreatedBy:   userRef(task.Creator, task.CreatorID),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.AssigneeID != nil {
		var assignee models.User
		if task.Assignee != nil {
			assignee = *task.Assignee
		}
		ref := userRef(assignee, *task.AssigneeID)
		dto.Assignee = &ref
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
