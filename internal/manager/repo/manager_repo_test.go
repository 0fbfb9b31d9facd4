package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/manager/repo"
	"github.com/ovaphlow/pitchfork/service-user-management/internal/testsutil"
)

func TestManagerRepo_InsertAndGetActive(t *testing.T) {
	r := repo.NewManagerRepo(testsutil.NewDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, "m-1", true))
	require.NoError(t, r.Insert(ctx, "m-off", false))

	m, err := r.GetActive(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ManagerID)
	assert.True(t, m.IsActive)

	_, err = r.GetActive(ctx, "m-off")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.GetActive(ctx, "m-missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestManagerRepo_InsertDuplicate(t *testing.T) {
	r := repo.NewManagerRepo(testsutil.NewDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, "m-1", true))
	err := r.Insert(ctx, "m-1", false)
	assert.ErrorIs(t, err, repo.ErrDuplicateKey)
}
