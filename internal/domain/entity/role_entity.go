package entity

import "time"

// Role represents an authorization role
// Many-to-many with User via user_roles.
// Description holds the authority token (convention: "ROLE_" + Name); the
// two columns are stored independently.
type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Authority returns the capability token this role confers.
func (r Role) Authority() string {
	return r.Description
}
