package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/response"
	"github.com/yukikurage/project-management-api/internal/services"
)

type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// CreateProject creates a project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(services.ErrNotAuthenticated)
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Created(c, dto.ToProjectDTO(*project), "Project created successfully")
}

// ListProjects returns the caller's projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(services.ErrNotAuthenticated)
		return
	}

	projects, err := h.projects.ListProjects(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, dto.ToProjectDTOs(projects), "Project fetched successfully")
}

// GetProject returns a project the caller is a member of
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		_ = c.Error(services.ErrNotAuthenticated)
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.OK(c, dto.ToProjectDTO(*project), "Project fetched successfully")
}
