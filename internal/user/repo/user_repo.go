package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-user-management/pkg/database"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateKey is returned when the generated user_id already exists.
	ErrDuplicateKey = errors.New("user_id already exists")
	// ErrConflict is returned when an active row already holds the mobile or PAN.
	ErrConflict = errors.New("active user with same mob_num or pan_num exists")
)

const userColumns = `user_id, full_name, mob_num, pan_num, COALESCE(manager_id, '') AS manager_id,
	created_at, updated_at, is_active`

// UserRepo provides data access for users table using sqlx. A repo returned
// by WithTx runs every statement inside that transaction.
type UserRepo struct {
	db   sqlx.ExtContext
	root *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db, root: db} }

// WithTx runs fn against a repo bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise. Nested calls reuse the
// outer transaction.
func (r *UserRepo) WithTx(ctx context.Context, fn func(tx *UserRepo) error) error {
	if r.root == nil {
		return fn(r)
	}
	tx, err := r.root.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&UserRepo{db: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Get fetches a user row regardless of its active flag.
func (r *UserRepo) Get(ctx context.Context, id string) (*entity.User, error) {
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE user_id = ?`)
	return r.getOne(ctx, q, id)
}

// GetActive fetches a user row only if it is active.
func (r *UserRepo) GetActive(ctx context.Context, id string) (*entity.User, error) {
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE user_id = ? AND is_active = ?`)
	return r.getOne(ctx, q, id, true)
}

// GetByMobile returns exactly one row for a mobile number: the active one if
// present, otherwise the most recently updated superseded row.
func (r *UserRepo) GetByMobile(ctx context.Context, mob string) (*entity.User, error) {
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE mob_num = ?
		ORDER BY is_active DESC, updated_at DESC, user_id LIMIT 1`)
	return r.getOne(ctx, q, mob)
}

func (r *UserRepo) getOne(ctx context.Context, q string, args ...any) (*entity.User, error) {
	var u entity.User
	if err := sqlx.GetContext(ctx, r.db, &u, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindActiveByMobileOrPan lists active rows holding either value.
func (r *UserRepo) FindActiveByMobileOrPan(ctx context.Context, mob, pan string) ([]entity.User, error) {
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users
		WHERE is_active = ? AND (mob_num = ? OR pan_num = ?)`)
	users := []entity.User{}
	if err := sqlx.SelectContext(ctx, r.db, &users, q, true, mob, pan); err != nil {
		return nil, err
	}
	return users, nil
}

// Find lists users matching the filter, oldest first.
func (r *UserRepo) Find(ctx context.Context, f entity.UserFilter) ([]entity.User, error) {
	var (
		where string
		args  []any
	)
	switch f.Kind {
	case entity.FilterUserID:
		where, args = ` WHERE user_id = ?`, []any{f.Value}
	case entity.FilterMobNum:
		where, args = ` WHERE mob_num = ?`, []any{f.Value}
	case entity.FilterManagerID:
		where, args = ` WHERE manager_id = ?`, []any{f.Value}
	case entity.FilterIsActive:
		where, args = ` WHERE is_active = ?`, []any{f.Active}
	}
	q := r.db.Rebind(`SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY created_at, user_id`)
	users := []entity.User{}
	if err := sqlx.SelectContext(ctx, r.db, &users, q, args...); err != nil {
		return nil, err
	}
	return users, nil
}

// Insert adds a user row as given.
func (r *UserRepo) Insert(ctx context.Context, u *entity.User) error {
	q := r.db.Rebind(`INSERT INTO users (user_id, full_name, mob_num, pan_num, manager_id, created_at, updated_at, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q,
		u.UserID, u.FullName, u.MobNum, u.PanNum, u.ManagerID, u.CreatedAt, u.UpdatedAt, u.IsActive)
	return mapWriteErr(err, u.UserID)
}

// UpdateFields applies the non-nil fields of d and refreshes updated_at.
// It returns the number of rows affected (0 or 1).
func (r *UserRepo) UpdateFields(ctx context.Context, id string, d entity.UpdateData, now time.Time) (int64, error) {
	q := r.db.Rebind(`UPDATE users SET
		full_name = COALESCE(?, full_name),
		mob_num = COALESCE(?, mob_num),
		pan_num = COALESCE(?, pan_num),
		manager_id = COALESCE(?, manager_id),
		updated_at = ?
		WHERE user_id = ?`)
	res, err := r.db.ExecContext(ctx, q, d.FullName, d.MobNum, d.PanNum, d.ManagerID, now, id)
	if err != nil {
		return 0, mapWriteErr(err, id)
	}
	return res.RowsAffected()
}

// Deactivate marks a user as superseded.
func (r *UserRepo) Deactivate(ctx context.Context, id string, now time.Time) (int64, error) {
	q := r.db.Rebind(`UPDATE users SET is_active = ?, updated_at = ? WHERE user_id = ?`)
	res, err := r.db.ExecContext(ctx, q, false, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the row permanently.
func (r *UserRepo) Delete(ctx context.Context, id string) (int64, error) {
	q := r.db.Rebind(`DELETE FROM users WHERE user_id = ?`)
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func mapWriteErr(err error, id string) error {
	switch database.ClassifyViolation(err) {
	case database.NoViolation:
		return err
	case database.PrimaryKeyViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateKey, id)
	default:
		return ErrConflict
	}
}
