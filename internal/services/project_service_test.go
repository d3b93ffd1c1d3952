package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/models"
)

func TestCreateProject_OwnerIsSoleMember(t *testing.T) {
	env := setupServices(t)
	alice := env.register(t, "alice", "a@x.com")

	project := env.project(t, alice.User.ID, "  Launch ")

	assert.Equal(t, "Launch", project.Name)
	assert.Equal(t, alice.User.ID, project.OwnerID)
	assert.Equal(t, "alice", project.Owner.Username)
	assert.Empty(t, project.Owner.PasswordHash)
	require.Len(t, project.Members, 1)
	assert.Equal(t, alice.User.ID, project.Members[0].UserID)
	assert.Equal(t, "a@x.com", project.Members[0].User.Email)
}

func TestCreateProject_Validation(t *testing.T) {
	env := setupServices(t)
	alice := env.register(t, "alice", "a@x.com")

	_, err := env.projects.CreateProject(context.Background(), CreateProjectInput{Name: "  ", OwnerID: alice.User.ID})
	assert.ErrorIs(t, err, ErrProjectNameRequired)

	_, err = env.projects.CreateProject(context.Background(), CreateProjectInput{Name: "x"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestListProjects_OnlyMemberships(t *testing.T) {
	env := setupServices(t)
	alice := env.register(t, "alice", "a@x.com")
	bob := env.register(t, "bob", "b@x.com")

	first := env.project(t, alice.User.ID, "first")
	second := env.project(t, alice.User.ID, "second")
	env.project(t, bob.User.ID, "bobs")

	projects, err := env.projects.ListProjects(context.Background(), alice.User.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	ids := []string{projects[0].ID, projects[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)
}

func TestGetProject_Gate(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "a@x.com")
	bob := env.register(t, "bob", "b@x.com")
	project := env.project(t, alice.User.ID, "p")

	got, err := env.projects.GetProject(ctx, project.ID, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)

	_, err = env.projects.GetProject(ctx, project.ID, bob.User.ID)
	assert.ErrorIs(t, err, ErrProjectForbidden)

	_, err = env.projects.GetProject(ctx, "not-an-id", alice.User.ID)
	assert.ErrorIs(t, err, ErrInvalidProjectID)

	_, err = env.projects.GetProject(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", alice.User.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestIsMember(t *testing.T) {
	project := &models.Project{Members: []models.ProjectMember{{UserID: "u1"}, {UserID: " u2 "}}}

	assert.True(t, IsMember(project, "u1"))
	assert.True(t, IsMember(project, "u2"))
	assert.False(t, IsMember(project, "u3"))
	assert.False(t, IsMember(project, ""))
	assert.False(t, IsMember(nil, "u1"))
}
