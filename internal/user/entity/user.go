package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// User represents a row in the `users` table. Rows are never renamed: a
// manager reassignment supersedes the row (IsActive=false) and inserts a new one.
type User struct {
	UserID    string    `db:"user_id" json:"user_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	MobNum    string    `db:"mob_num" json:"mob_num"`
	PanNum    string    `db:"pan_num" json:"pan_num"`
	ManagerID string    `db:"manager_id" json:"manager_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	IsActive  bool      `db:"is_active" json:"is_active"`
}

// FilterKind selects which column a UserFilter matches on.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterUserID
	FilterMobNum
	FilterManagerID
	FilterIsActive
)

// UserFilter is a single-column exact-match filter; FilterAll returns every row.
type UserFilter struct {
	Kind   FilterKind
	Value  string
	Active bool
}

// UpdateData carries the optional fields of an update. A nil field keeps the
// stored value. Keys lists every key present in the decoded JSON object,
// including ones with no matching field.
type UpdateData struct {
	FullName  *string `json:"full_name,omitempty"`
	MobNum    *string `json:"mob_num,omitempty"`
	PanNum    *string `json:"pan_num,omitempty"`
	ManagerID *string `json:"manager_id,omitempty"`

	Keys []string `json:"-"`
}

// UnmarshalJSON records every present key. A known key set to null counts as
// present with an empty value.
func (d *UpdateData) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = UpdateData{Keys: make([]string, 0, len(raw))}
	for k, v := range raw {
		d.Keys = append(d.Keys, k)
		var dst **string
		switch k {
		case "full_name":
			dst = &d.FullName
		case "mob_num":
			dst = &d.MobNum
		case "pan_num":
			dst = &d.PanNum
		case "manager_id":
			dst = &d.ManagerID
		default:
			continue
		}
		var s string
		if !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		*dst = &s
	}
	slices.Sort(d.Keys)
	return nil
}

// Empty reports whether no key was supplied.
func (d UpdateData) Empty() bool {
	return len(d.Keys) == 0 && d.FullName == nil && d.MobNum == nil && d.PanNum == nil && d.ManagerID == nil
}

// ManagerOnly reports whether manager_id is the only key supplied. Values built
// in code without Keys are judged by their set fields.
func (d UpdateData) ManagerOnly() bool {
	if d.Keys != nil {
		return len(d.Keys) == 1 && d.Keys[0] == "manager_id"
	}
	return d.ManagerID != nil && d.FullName == nil && d.MobNum == nil && d.PanNum == nil
}
