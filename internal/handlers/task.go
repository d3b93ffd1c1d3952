package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/response"
	"github.com/yukikurage/project-management-api/internal/services"
)

var errInvalidDueDate = apierrors.InvalidInput("Invalid due date", dto.ErrInvalidDueDate.Error())

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTask creates a task in the project named by the path
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(services.ErrNotAuthenticated)
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	input := services.CreateTaskInput{
		ProjectID:   c.Param("id"),
		CreatorID:   user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		AssigneeID:  req.Assignee,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := dto.ParseDueDate(*req.DueDate)
		if err != nil {
			_ = c.Error(errInvalidDueDate)
			return
		}
		input.DueDate = due
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Created(c, dto.ToTaskDTO(*task), "Task created successfully")
}

// ListTasks returns the tasks of a project, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(services.ErrNotAuthenticated)
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, dto.ToTaskDTOs(tasks), "Tasks fetched successfully")
}

// UpdateTask applies a partial update. Only fields present in the body are
// changed; an explicit null clears assignee or dueDate.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(services.ErrNotAuthenticated)
		return
	}

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		_ = c.Error(err)
		return
	}

	input, err := parseTaskPatch(raw)
	if err != nil {
		_ = c.Error(err)
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), c.Param("id"), c.Param("taskId"), user.ID, input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, dto.ToTaskDTO(*task), "Task updated successfully")
}

// DeleteTask deletes a task of the project named by the path
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(services.ErrNotAuthenticated)
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), c.Param("id"), c.Param("taskId"), user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, nil, "Task deleted successfully")
}

// parseTaskPatch turns a JSON object into an update that distinguishes
// absent fields from explicit nulls. Null only clears assignee and dueDate;
// elsewhere it is ignored, as are unknown fields.
func parseTaskPatch(raw map[string]json.RawMessage) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if v, ok := raw["title"]; ok && !isNull(v) {
		title, err := patchString("title", v)
		if err != nil {
			return input, err
		}
		input.Title = &title
	}
	if v, ok := raw["description"]; ok && !isNull(v) {
		description, err := patchString("description", v)
		if err != nil {
			return input, err
		}
		input.Description = &description
	}
	if v, ok := raw["status"]; ok && !isNull(v) {
		status, err := patchString("status", v)
		if err != nil {
			return input, err
		}
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if v, ok := raw["priority"]; ok && !isNull(v) {
		priority, err := patchString("priority", v)
		if err != nil {
			return input, err
		}
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if v, ok := raw["assignee"]; ok {
		if isNull(v) {
			input.ClearAssignee = true
		} else {
			assignee, err := patchString("assignee", v)
			if err != nil {
				return input, err
			}
			input.AssigneeID = &assignee
		}
	}
	if v, ok := raw["dueDate"]; ok {
		dueDate, err := patchString("dueDate", v)
		if err != nil {
			return input, err
		}
		if isNull(v) || dueDate == "" {
			input.ClearDueDate = true
		} else {
			due, err := dto.ParseDueDate(dueDate)
			if err != nil {
				return input, errInvalidDueDate
			}
			input.DueDate = due
		}
	}

	return input, nil
}

// patchString decodes a string field; null decodes to "".
func patchString(field string, v json.RawMessage) (string, error) {
	if isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", apierrors.InvalidInput(apierrors.ErrInvalidBody.Message, fmt.Sprintf("%s must be a string", field))
	}
	return s, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
