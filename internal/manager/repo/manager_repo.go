package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/manager/entity"
	"github.com/ovaphlow/pitchfork/service-user-management/pkg/database"
)

var (
	ErrNotFound     = errors.New("manager not found")
	ErrDuplicateKey = errors.New("manager_id already exists")
)

// ManagerRepo provides data access for the managers table using sqlx.
type ManagerRepo struct {
	db *sqlx.DB
}

func NewManagerRepo(db *sqlx.DB) *ManagerRepo { return &ManagerRepo{db: db} }

// Insert adds a manager row. A second insert with the same id fails with ErrDuplicateKey.
func (r *ManagerRepo) Insert(ctx context.Context, id string, isActive bool) error {
	q := r.db.Rebind(`INSERT INTO managers (manager_id, is_active) VALUES (?, ?)`)
	if _, err := r.db.ExecContext(ctx, q, id, isActive); err != nil {
		if database.ClassifyViolation(err) != database.NoViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, id)
		}
		return err
	}
	return nil
}

// GetActive returns the manager only if it exists and is active.
func (r *ManagerRepo) GetActive(ctx context.Context, id string) (*entity.Manager, error) {
	q := r.db.Rebind(`SELECT manager_id, is_active FROM managers WHERE manager_id = ? AND is_active = ?`)
	var m entity.Manager
	if err := r.db.GetContext(ctx, &m, q, id, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
