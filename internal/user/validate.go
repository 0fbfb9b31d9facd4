package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/manager/entity"
	managerrepo "github.com/ovaphlow/pitchfork/service-user-management/internal/manager/repo"
)

var (
	mobileRe = regexp.MustCompile(`^\+91\d{10}$`)
	panRe    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// ManagerLookup is the read side of the managers table the validators need.
type ManagerLookup interface {
	GetActive(ctx context.Context, id string) (*entity.Manager, error)
}

// ValidMobile reports whether s is +91 followed by exactly ten digits.
func ValidMobile(s string) bool {
	return mobileRe.MatchString(s)
}

// NormalizePAN returns the stored form of a PAN.
func NormalizePAN(s string) string {
	return strings.ToUpper(s)
}

// ValidPAN reports whether s, case-insensitively, is five letters, four
// digits and a letter.
func ValidPAN(s string) bool {
	if s == "" {
		return false
	}
	return panRe.MatchString(NormalizePAN(s))
}

// ValidManager reports whether id names an active manager right now. Store
// failures are returned instead of being folded into false.
func ValidManager(ctx context.Context, id string, managers ManagerLookup) (bool, error) {
	if id == "" {
		return false, nil
	}
	if _, err := managers.GetActive(ctx, id); err != nil {
		if errors.Is(err, managerrepo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
