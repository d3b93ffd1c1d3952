package models

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/utils"
	"gorm.io/gorm"
)

type Project struct {
	ID          string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"project_name"`
	Description string         `gorm:"type:text;not null;default:''" json:"description"`
	OwnerID     string         `gorm:"type:varchar(26);not null;index" json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner   User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	return nil
}
