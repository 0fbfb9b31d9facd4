package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Violation classifies a unique constraint failure reported by the driver.
type Violation int

const (
	NoViolation Violation = iota
	PrimaryKeyViolation
	UniqueViolation
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// ClassifyViolation reports whether err is a primary-key or secondary unique
// index violation for either supported driver.
func ClassifyViolation(err error) Violation {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey:
			return PrimaryKeyViolation
		case sqlite3.ErrConstraintUnique:
			return UniqueViolation
		}
		return NoViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		if strings.HasSuffix(pqErr.Constraint, "_pkey") {
			return PrimaryKeyViolation
		}
		return UniqueViolation
	}
	return NoViolation
}
