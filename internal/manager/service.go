package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/manager/entity"
	"github.com/ovaphlow/pitchfork/service-user-management/internal/manager/repo"
)

var (
	ErrMissingID    = errors.New("manager_id is required")
	ErrDuplicateKey = repo.ErrDuplicateKey
	ErrNotFound     = repo.ErrNotFound
)

// Service handles manager bootstrap and lookups.
type Service struct {
	repo *repo.ManagerRepo
}

func NewService(db *sqlx.DB, r *repo.ManagerRepo) *Service {
	if r == nil {
		r = repo.NewManagerRepo(db)
	}
	return &Service{repo: r}
}

// AddManager inserts a manager. Managers are never updated afterwards.
func (s *Service) AddManager(ctx context.Context, id string, isActive bool) (*entity.Manager, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if err := s.repo.Insert(ctx, id, isActive); err != nil {
		return nil, fmt.Errorf("add manager: %w", err)
	}
	return &entity.Manager{ManagerID: id, IsActive: isActive}, nil
}

// GetActive returns the manager if it exists and is active.
func (s *Service) GetActive(ctx context.Context, id string) (*entity.Manager, error) {
	return s.repo.GetActive(ctx, id)
}
