package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

// Migration returns the schema for the managers and users tables. The DDL is
// kept to the subset SQLite and PostgreSQL agree on so both drivers share it.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "user_management_01",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS managers (
						manager_id  TEXT PRIMARY KEY,
						is_active   BOOLEAN NOT NULL DEFAULT TRUE
					)`,
					`CREATE TABLE IF NOT EXISTS users (
						user_id     TEXT PRIMARY KEY,
						full_name   TEXT NOT NULL,
						mob_num     TEXT NOT NULL,
						pan_num     TEXT NOT NULL,
						manager_id  TEXT REFERENCES managers (manager_id),
						created_at  TIMESTAMP,
						updated_at  TIMESTAMP,
						is_active   BOOLEAN NOT NULL DEFAULT TRUE
					)`,
					`CREATE INDEX IF NOT EXISTS idx_users_manager_id ON users (manager_id)`,
					`CREATE INDEX IF NOT EXISTS idx_users_mob_num ON users (mob_num)`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS users`,
					`DROP TABLE IF EXISTS managers`,
				},
			},
			{
				// only one active row may hold a given mobile or PAN; superseded rows keep theirs
				Id: "user_management_02_active_unique",
				Up: []string{
					`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_active_mob_num ON users (mob_num) WHERE is_active = TRUE`,
					`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_active_pan_num ON users (pan_num) WHERE is_active = TRUE`,
				},
				Down: []string{
					`DROP INDEX IF EXISTS ux_users_active_pan_num`,
					`DROP INDEX IF EXISTS ux_users_active_mob_num`,
				},
			},
		},
	}
}

// Migrate applies every pending migration and returns how many ran.
func Migrate(db *sqlx.DB) (int, error) {
	n, err := migrate.Exec(db.DB, db.DriverName(), Migration(), migrate.Up)
	if err != nil {
		return n, fmt.Errorf("migrate: %w", err)
	}
	return n, nil
}
