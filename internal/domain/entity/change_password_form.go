package entity

// ChangePasswordForm is the transient input of a password change.
// All password fields are plaintext as supplied by the caller.
type ChangePasswordForm struct {
	ID              int64
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}
