package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field.
// ConfirmPassword is input-only and never persisted.
type User struct {
	ID              int64
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	FirstName       string
	LastName        string
	Roles           []Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RoleIDs returns the ids of the roles referenced by the user.
func (u *User) RoleIDs() []int64 {
	ids := make([]int64, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}
