package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t,
		"file:data.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate",
		sqliteDSN("data.db"))
	assert.Equal(t,
		"file:data.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate",
		sqliteDSN("file:data.db?mode=rwc"))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_MAX_CONNS", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "user-management.db", cfg.DSN)
	assert.Equal(t, 5, cfg.MaxConns)

	t.Setenv("DATABASE_DRIVER", DriverPostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/users")
	t.Setenv("DATABASE_MAX_CONNS", "12")
	cfg = ConfigFromEnv()
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "postgres://localhost/users", cfg.DSN)
	assert.Equal(t, 12, cfg.MaxConns)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "m.db"), MaxConns: 2})
	require.NoError(t, err)
	defer db.Close()

	n, err := Migrate(db)
	require.NoError(t, err)
	assert.Equal(t, len(Migration().Migrations), n)

	n, err = Migrate(db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestClassifyViolation(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "c.db"), MaxConns: 2})
	require.NoError(t, err)
	defer db.Close()
	_, err = Migrate(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = db.ExecContext(ctx, `INSERT INTO managers (manager_id) VALUES ('m-1')`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO managers (manager_id) VALUES ('m-1')`)
	assert.Equal(t, PrimaryKeyViolation, ClassifyViolation(err))

	insert := `INSERT INTO users (user_id, full_name, mob_num, pan_num, manager_id) VALUES (?, 'A', '+919999999999', ?, 'm-1')`
	_, err = db.ExecContext(ctx, insert, "u-1", "ABCDE1234F")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "u-2", "ZZZZZ9999Z")
	assert.Equal(t, UniqueViolation, ClassifyViolation(err))

	assert.Equal(t, PrimaryKeyViolation, ClassifyViolation(&pq.Error{Code: "23505", Constraint: "users_pkey"}))
	assert.Equal(t, UniqueViolation, ClassifyViolation(&pq.Error{Code: "23505", Constraint: "ux_users_active_mob_num"}))
	assert.Equal(t, NoViolation, ClassifyViolation(&pq.Error{Code: "23503"}))
	assert.Equal(t, NoViolation, ClassifyViolation(errors.New("other")))
	assert.Equal(t, NoViolation, ClassifyViolation(nil))
}
