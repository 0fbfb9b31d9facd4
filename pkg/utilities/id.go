package utilities

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewUUID returns a random (v4) UUID string. User rows are keyed by these.
func NewUUID() string {
	return uuid.NewString()
}
