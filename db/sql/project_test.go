package sql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow/db"
)

func TestSqlDb_ProjectUsers(t *testing.T) {
	store := CreateTestStore()
	defer store.Close("test")

	user, task := seedTask(t, store)

	_, err := store.GetProjectUser(task.ProjectID, user.ID)
	assert.True(t, errors.Is(err, db.ErrNotFound))

	_, err = store.CreateProjectUser(db.ProjectUser{ProjectID: task.ProjectID, UserID: user.ID, Role: db.ProjectOwner})
	require.NoError(t, err)

	_, err = store.CreateProjectUser(db.ProjectUser{ProjectID: task.ProjectID, UserID: user.ID, Role: db.ProjectMember})
	assert.True(t, db.IsValidationError(err))

	projects, err := store.GetUserProjects(user.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, task.ProjectID, projects[0].ID)
}

func TestSqlDb_DuplicateUser(t *testing.T) {
	store := CreateTestStore()
	defer store.Close("test")

	_, err := store.CreateUser(db.User{Username: "dup", Email: "dup@example.com"})
	require.NoError(t, err)

	_, err = store.CreateUser(db.User{Username: "dup2", Email: "DUP@example.com"})
	assert.True(t, db.IsValidationError(err))

	byEmail, err := store.GetUserByEmail(" Dup@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "dup", byEmail.Username)
}

func TestSqlDb_MigrateIsIdempotent(t *testing.T) {
	store := CreateTestStore()
	defer store.Close("test")

	applied, err := store.IsMigrationApplied("1.0.0")
	require.NoError(t, err)
	assert.True(t, applied)

	assert.NoError(t, store.Migrate())
}
