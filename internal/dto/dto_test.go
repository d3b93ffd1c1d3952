package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/models"
)

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2030-01-02")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)))

	got, err = ParseDueDate("2030-01-02T10:30:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2030, 1, 2, 8, 30, 0, 0, time.UTC)))

	_, err = ParseDueDate("next tuesday")
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestToUserDTO_HasNoCredentials(t *testing.T) {
	token := "refresh"
	user := models.User{ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "hash", RefreshToken: &token}

	raw, err := json.Marshal(ToUserDTO(user))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "hash")
	assert.NotContains(t, string(raw), "refresh")
	assert.Contains(t, string(raw), `"email":"a@x.com"`)
}

func TestToTaskDTO_References(t *testing.T) {
	assigneeID := "u2"
	task := models.Task{
		ID:         "t1",
		Title:      "T1",
		ProjectID:  "p1",
		CreatorID:  "u1",
		AssigneeID: &assigneeID,
		Creator:    models.User{ID: "u1", Username: "alice", Email: "a@x.com"},
	}

	dto := ToTaskDTO(task)
	assert.Equal(t, "p1", dto.Project)
	assert.Equal(t, "alice", dto.CreatedBy.Username)
	require.NotNil(t, dto.Assignee)
	assert.Equal(t, UserRefDTO{ID: "u2"}, *dto.Assignee)

	task.AssigneeID = nil
	assert.Nil(t, ToTaskDTO(task).Assignee)
}

func TestToProjectDTO_Members(t *testing.T) {
	project := models.Project{
		ID:      "p1",
		Name:    "P1",
		OwnerID: "u1",
		Owner:   models.User{ID: "u1", Username: "alice", Email: "a@x.com"},
		Members: []models.ProjectMember{
			{ProjectID: "p1", UserID: "u1", User: models.User{ID: "u1", Username: "alice", Email: "a@x.com"}},
		},
	}

	dto := ToProjectDTO(project)
	assert.Equal(t, "P1", dto.Name)
	assert.Equal(t, "alice", dto.Owner.Username)
	require.Len(t, dto.Members, 1)
	assert.Equal(t, "a@x.com", dto.Members[0].Email)

	assert.NotNil(t, ToProjectDTOs(nil))
}
