package repository_test

import (
	"context"
	"testing"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_ActiveNameTaken(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProjectRepository(testDB(t))

	ownerA, ownerB := uuid.New(), uuid.New()
	alpha := &model.Project{Name: "Alpha", OwnerID: ownerA, IsActive: true}
	archived := &model.Project{Name: "Beta", OwnerID: ownerA, IsActive: false}
	require.NoError(t, repo.Create(ctx, alpha))
	require.NoError(t, repo.Create(ctx, archived))

	taken, err := repo.ActiveNameTaken(ctx, ownerA, "alpha", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken, "case-insensitive match among active projects")

	taken, err = repo.ActiveNameTaken(ctx, ownerA, "ALPHA", alpha.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a project never collides with itself")

	taken, err = repo.ActiveNameTaken(ctx, ownerB, "Alpha", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken, "scope is per owner")

	taken, err = repo.ActiveNameTaken(ctx, ownerA, "beta", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken, "inactive projects are outside the scope")
}

func TestProjectRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProjectRepository(testDB(t))

	owner := uuid.New()
	p1 := &model.Project{Name: "One", OwnerID: owner, IsActive: true}
	p2 := &model.Project{Name: "Two", OwnerID: owner, IsActive: false}
	p3 := &model.Project{Name: "Three", OwnerID: uuid.New(), IsActive: true}
	for _, p := range []*model.Project{p1, p2, p3} {
		require.NoError(t, repo.Create(ctx, p))
	}

	active := true
	got, err := repo.List(ctx, repository.ProjectFilter{OwnerID: &owner, Active: &active})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p1.ID, got[0].ID)

	got, err = repo.List(ctx, repository.ProjectFilter{OwnerID: &owner})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, repo.Delete(ctx, p2.ID))
	_, err = repo.GetByID(ctx, p2.ID)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p2.ID), repository.ErrProjectNotFound)
}
