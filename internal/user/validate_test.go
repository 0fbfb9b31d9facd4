package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/manager/entity"
	managerrepo "github.com/ovaphlow/pitchfork/service-user-management/internal/manager/repo"
)

func TestValidMobile(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"+919876543210", true},
		{"+910000000000", true},
		{"919876543210", false},
		{"+91987654321", false},
		{"+9198765432100", false},
		{"+919876543210 ", false},
		{" +919876543210", false},
		{"+929876543210", false},
		{"+91987654321a", false},
		{"+91９８７６５４３２１０", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ValidMobile(c.in), "ValidMobile(%q)", c.in)
	}
}

func TestValidPAN(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"ABCDE1234F", true},
		{"abcde1234f", true},
		{"AbCdE1234f", true},
		{"ABCDE123F", false},
		{"ABCD12345F", false},
		{"ABCDE12345", false},
		{"ABCDE1234FG", false},
		{"ABCDE 1234F", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ValidPAN(c.in), "ValidPAN(%q)", c.in)
	}
	assert.Equal(t, "ABCDE1234F", NormalizePAN("abcde1234f"))
}

type fakeManagers map[string]error

func (f fakeManagers) GetActive(_ context.Context, id string) (*entity.Manager, error) {
	err, ok := f[id]
	if !ok {
		return nil, managerrepo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity.Manager{ManagerID: id, IsActive: true}, nil
}

func TestValidManager(t *testing.T) {
	storeErr := errors.New("disk I/O error")
	managers := fakeManagers{"m-1": nil, "m-broken": storeErr}
	ctx := context.Background()

	ok, err := ValidManager(ctx, "m-1", managers)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ValidManager(ctx, "m-missing", managers)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ValidManager(ctx, "", managers)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ValidManager(ctx, "m-broken", managers)
	assert.ErrorIs(t, err, storeErr)
}
