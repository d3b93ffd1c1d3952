package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/database"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/response"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness and store reachability.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := database.Ping(h.db); err != nil {
		_ = c.Error(apierrors.Internal("Database unavailable", err))
		return
	}

	response.OK(c, gin.H{"status": "ok"}, "Health Check is passed")
}
