package models

import "time"

// ProjectMember links a user to a project. Rows hold references only.
type ProjectMember struct {
	ProjectID string    `gorm:"primaryKey;type:varchar(26)" json:"project_id"`
	UserID    string    `gorm:"primaryKey;type:varchar(26);index" json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
