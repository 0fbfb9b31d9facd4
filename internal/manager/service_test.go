package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/testsutil"
)

func TestService_AddManager(t *testing.T) {
	svc := NewService(testsutil.NewDB(t), nil)
	ctx := context.Background()

	m, err := svc.AddManager(ctx, "m-1", true)
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ManagerID)

	_, err = svc.AddManager(ctx, "m-1", true)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	_, err = svc.AddManager(ctx, "", true)
	assert.ErrorIs(t, err, ErrMissingID)

	got, err := svc.GetActive(ctx, "m-1")
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = svc.AddManager(ctx, "m-2", false)
	require.NoError(t, err)
	_, err = svc.GetActive(ctx, "m-2")
	assert.ErrorIs(t, err, ErrNotFound)
}
