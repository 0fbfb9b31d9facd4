// Package testsutil holds fixtures shared by repository, service and router tests.
package testsutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-user-management/pkg/database"
)

// NewDB opens a migrated SQLite database in a per-test temp dir.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver:   database.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		MaxConns: 4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.Migrate(db)
	require.NoError(t, err)
	return db
}

// AddManager inserts a manager row directly.
func AddManager(t testing.TB, db *sqlx.DB, id string, active bool) {
	t.Helper()
	_, err := db.ExecContext(context.Background(),
		db.Rebind(`INSERT INTO managers (manager_id, is_active) VALUES (?, ?)`), id, active)
	require.NoError(t, err)
}

// Mobile returns a random well-formed mobile number.
func Mobile() string {
	return "+91" + gofakeit.Numerify("##########")
}

// PAN returns a random well-formed PAN in upper case.
func PAN() string {
	return strings.ToUpper(gofakeit.Lexify("?????")) + gofakeit.Numerify("####") + strings.ToUpper(gofakeit.Lexify("?"))
}

// Name returns a random full name.
func Name() string {
	return gofakeit.Name()
}
