package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	managerrepo "github.com/ovaphlow/pitchfork/service-user-management/internal/manager/repo"
	"github.com/ovaphlow/pitchfork/service-user-management/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-user-management/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-user-management/pkg/utilities"
)

var (
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidReference = errors.New("invalid or inactive manager_id")

	// store-level sentinels surface unchanged
	ErrConflict     = userrepo.ErrConflict
	ErrNotFound     = userrepo.ErrNotFound
	ErrDuplicateKey = userrepo.ErrDuplicateKey
)

// UserService orchestrates the user lifecycle: creation, lookup, deletion and
// updates including manager reassignment.
type UserService struct {
	repo     *userrepo.UserRepo
	managers ManagerLookup

	// Now and NewID are swapped in tests.
	Now   func() time.Time
	NewID func() string
}

func NewUserService(db *sqlx.DB, r *userrepo.UserRepo, managers ManagerLookup) *UserService {
	if r == nil {
		r = userrepo.NewUserRepo(db)
	}
	if managers == nil {
		managers = managerrepo.NewManagerRepo(db)
	}
	return &UserService{
		repo:     r,
		managers: managers,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    utilities.NewUUID,
	}
}

// CreateUserInput holds the create_user request fields.
type CreateUserInput struct {
	FullName  string
	MobNum    string
	PanNum    string
	ManagerID string
}

// CreateUser validates the input, checks that no active user holds the mobile
// or PAN and inserts a new active row. It returns the generated user_id.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (string, error) {
	if strings.TrimSpace(in.FullName) == "" || in.MobNum == "" || in.PanNum == "" || in.ManagerID == "" {
		return "", fmt.Errorf("%w: full_name, mob_num, pan_num and manager_id are required", ErrMissingField)
	}
	if !ValidMobile(in.MobNum) {
		return "", fmt.Errorf("%w: mob_num must be +91 followed by 10 digits", ErrInvalidFormat)
	}
	pan := NormalizePAN(in.PanNum)
	if !ValidPAN(pan) {
		return "", fmt.Errorf("%w: pan_num must be 5 letters, 4 digits and a letter", ErrInvalidFormat)
	}
	if err := s.checkManager(ctx, in.ManagerID); err != nil {
		return "", err
	}

	now := s.Now()
	u := &entity.User{
		UserID:    s.NewID(),
		FullName:  in.FullName,
		MobNum:    in.MobNum,
		PanNum:    pan,
		ManagerID: in.ManagerID,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}
	err := s.repo.WithTx(ctx, func(tx *userrepo.UserRepo) error {
		existing, err := tx.FindActiveByMobileOrPan(ctx, u.MobNum, u.PanNum)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrConflict
		}
		return tx.Insert(ctx, u)
	})
	if err != nil {
		return "", err
	}
	return u.UserID, nil
}

// GetUsersInput holds the optional get_users filters. Only the first non-empty
// one, in field order, is applied.
type GetUsersInput struct {
	UserID    string
	MobNum    string
	ManagerID string
	// IsActive is honoured only when it is exactly "1" or "0".
	IsActive string
}

// GetUsers lists users matching the highest-precedence filter supplied, or
// every row when none is.
func (s *UserService) GetUsers(ctx context.Context, in GetUsersInput) ([]entity.User, error) {
	f, err := buildFilter(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, f)
}

func buildFilter(in GetUsersInput) (entity.UserFilter, error) {
	switch {
	case in.UserID != "":
		return entity.UserFilter{Kind: entity.FilterUserID, Value: in.UserID}, nil
	case in.MobNum != "":
		if !ValidMobile(in.MobNum) {
			return entity.UserFilter{}, fmt.Errorf("%w: mob_num must be +91 followed by 10 digits", ErrInvalidFormat)
		}
		return entity.UserFilter{Kind: entity.FilterMobNum, Value: in.MobNum}, nil
	case in.ManagerID != "":
		return entity.UserFilter{Kind: entity.FilterManagerID, Value: in.ManagerID}, nil
	case in.IsActive == "1" || in.IsActive == "0":
		return entity.UserFilter{Kind: entity.FilterIsActive, Active: in.IsActive == "1"}, nil
	}
	return entity.UserFilter{Kind: entity.FilterAll}, nil
}

// DeleteUserInput identifies the row to delete; UserID wins over MobNum.
type DeleteUserInput struct {
	UserID string
	MobNum string
}

// DeleteUser hard-deletes exactly one row and returns its id.
func (s *UserService) DeleteUser(ctx context.Context, in DeleteUserInput) (string, error) {
	if in.UserID == "" && in.MobNum == "" {
		return "", fmt.Errorf("%w: user_id or mob_num is required", ErrMissingField)
	}
	var deleted string
	err := s.repo.WithTx(ctx, func(tx *userrepo.UserRepo) error {
		var (
			u   *entity.User
			err error
		)
		if in.UserID != "" {
			u, err = tx.Get(ctx, in.UserID)
		} else {
			u, err = tx.GetByMobile(ctx, in.MobNum)
		}
		if err != nil {
			return err
		}
		n, err := tx.Delete(ctx, u.UserID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		deleted = u.UserID
		return nil
	})
	if err != nil {
		return "", err
	}
	return deleted, nil
}

// UpdateResult reports what an UpdateUsers call touched. Reassigned maps each
// superseded user_id to the id of the row that replaced it.
type UpdateResult struct {
	UserIDs    []string          `json:"user_ids"`
	Reassigned map[string]string `json:"reassigned,omitempty"`
}

// UpdateUsers applies d to every id in order. A manager-only update supersedes
// each row with a new identity; any other update edits rows in place. The
// batch is all-or-nothing: the first missing id rolls back earlier writes.
func (s *UserService) UpdateUsers(ctx context.Context, ids []string, d entity.UpdateData) (*UpdateResult, error) {
	if len(ids) == 0 || d.Empty() {
		return nil, fmt.Errorf("%w: user_ids and update_data are required", ErrMissingField)
	}
	if d.FullName != nil && strings.TrimSpace(*d.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name must not be empty", ErrMissingField)
	}
	if d.MobNum != nil && !ValidMobile(*d.MobNum) {
		return nil, fmt.Errorf("%w: mob_num must be +91 followed by 10 digits", ErrInvalidFormat)
	}
	if d.PanNum != nil {
		pan := NormalizePAN(*d.PanNum)
		if !ValidPAN(pan) {
			return nil, fmt.Errorf("%w: pan_num must be 5 letters, 4 digits and a letter", ErrInvalidFormat)
		}
		d.PanNum = &pan
	}
	if d.ManagerID != nil {
		if err := s.checkManager(ctx, *d.ManagerID); err != nil {
			return nil, err
		}
	}

	res := &UpdateResult{UserIDs: make([]string, 0, len(ids))}
	err := s.repo.WithTx(ctx, func(tx *userrepo.UserRepo) error {
		if d.ManagerOnly() {
			res.Reassigned = make(map[string]string, len(ids))
			for _, id := range ids {
				newID, err := s.reassign(ctx, tx, id, *d.ManagerID)
				if err != nil {
					return err
				}
				res.UserIDs = append(res.UserIDs, id)
				res.Reassigned[id] = newID
			}
			return nil
		}
		now := s.Now()
		for _, id := range ids {
			n, err := tx.UpdateFields(ctx, id, d, now)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			res.UserIDs = append(res.UserIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// reassign supersedes the active row id and inserts its replacement under
// managerID. The old row is deactivated first so the replacement can reuse
// its mobile and PAN.
func (s *UserService) reassign(ctx context.Context, tx *userrepo.UserRepo, id, managerID string) (string, error) {
	old, err := tx.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", err
	}
	now := s.Now()
	if _, err := tx.Deactivate(ctx, old.UserID, now); err != nil {
		return "", err
	}
	u := &entity.User{
		UserID:    s.NewID(),
		FullName:  old.FullName,
		MobNum:    old.MobNum,
		PanNum:    old.PanNum,
		ManagerID: managerID,
		CreatedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}
	if err := tx.Insert(ctx, u); err != nil {
		return "", err
	}
	return u.UserID, nil
}

func (s *UserService) checkManager(ctx context.Context, id string) error {
	ok, err := ValidManager(ctx, id, s.managers)
	if err != nil {
		return fmt.Errorf("check manager: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidReference, id)
	}
	return nil
}
