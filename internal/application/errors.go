package application

import "errors"

// Kind sentinels; every *AppError matches exactly one of them with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrFieldValidation   = errors.New("field validation")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrPolicyViolation   = errors.New("policy violation")
	ErrMismatch          = errors.New("mismatch")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// Fixed user-facing messages. Callers and clients match on these.
const (
	MsgUserIDNotFound        = "User id does not exist."
	MsgLoginUsernameInvalid  = "Login Username Invalid."
	MsgUsernameNotAvailable  = "Username not available"
	MsgConfirmPasswordNeeded = "Confirm Password is required"
	MsgPasswordsNotSame      = "Password and Confirm Password are not the same"
	MsgCurrentPasswordBad    = "Current Password invalid."
	MsgNewPasswordReused     = "New password must be different from the current password."
	MsgNewPasswordMismatch   = "New Password and Confirm Password do not match."
	MsgBadCredentials        = "Bad credentials"
)

// AppError is a terminal business failure. Error() returns Message verbatim.
type AppError struct {
	Kind    error
	Field   string
	Message string
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Is(target error) bool { return target == e.Kind }

func NotFound(msg string) error { return &AppError{Kind: ErrNotFound, Message: msg} }

func FieldValidation(field, msg string) error {
	return &AppError{Kind: ErrFieldValidation, Field: field, Message: msg}
}

func InvalidCredential(msg string) error {
	return &AppError{Kind: ErrInvalidCredential, Message: msg}
}

func PolicyViolation(msg string) error { return &AppError{Kind: ErrPolicyViolation, Message: msg} }

func Mismatch(msg string) error { return &AppError{Kind: ErrMismatch, Message: msg} }

func PrincipalNotFound() error {
	return &AppError{Kind: ErrPrincipalNotFound, Message: MsgLoginUsernameInvalid}
}
