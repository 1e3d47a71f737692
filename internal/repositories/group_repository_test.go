package repositories

import (
	"testing"

	"github.com/inkwell-social/inkwell/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetGroupBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresGroupRepository(db)

	require.NoError(t, repo.CreateGroup(&models.Group{Title: "Go", Slug: "go", Description: "gophers"}))

	group, err := repo.GetGroupBySlug("go")
	require.NoError(t, err)
	assert.Equal(t, "Go", group.Title)

	_, err = repo.GetGroupBySlug("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateGroupKeepsSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresGroupRepository(db)

	group := &models.Group{Title: "Go", Slug: "go"}
	require.NoError(t, repo.CreateGroup(group))

	group.Title = "Golang"
	group.Description = "updated"
	group.Slug = "hijacked"
	require.NoError(t, repo.UpdateGroup(group))

	stored, err := repo.GetGroupBySlug("go")
	require.NoError(t, err)
	assert.Equal(t, "Golang", stored.Title)
	assert.Equal(t, "updated", stored.Description)
}

func TestListGroupsSortedByTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresGroupRepository(db)

	require.NoError(t, repo.CreateGroup(&models.Group{Title: "Zig", Slug: "zig"}))
	require.NoError(t, repo.CreateGroup(&models.Group{Title: "Ada", Slug: "ada"}))

	groups, err := repo.ListGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Ada", groups[0].Title)
	assert.Equal(t, "Zig", groups[1].Title)
}
