package database

import (
	"fmt"

	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the list queries
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Tasks of a project, newest first
		{&models.Task{}, "tasks", "idx_tasks_project_created", "project_id, created_at"},
		// Projects of a member
		{&models.ProjectMember{}, "project_members", "idx_project_members_user_project", "user_id, project_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
