package entity

// Manager is a row of the `managers` table. Managers are inserted once by an
// administrative call and only ever referenced by users afterwards.
type Manager struct {
	ManagerID string `db:"manager_id" json:"manager_id"`
	IsActive  bool   `db:"is_active" json:"is_active"`
}
