package domain

import "errors"

// Domain errors. Repositories re-classify storage errors into these before
// they leave the layer; handlers translate them to HTTP statuses with
// errors.Is. Raw driver error codes never cross the repository boundary.
var (
	// ErrUserNotFound indicates the lookup target does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser indicates a username or email uniqueness violation.
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrConfirmationNotFound indicates there is no pending confirmation
	// record matching the supplied email/code pair.
	ErrConfirmationNotFound = errors.New("no matching confirmation record")

	// ErrInvalidResetToken covers expired, tampered and claim-less
	// forgot-password tokens. Callers do not need to distinguish the cases.
	ErrInvalidResetToken = errors.New("token expired or broken")

	// ErrInvalidCredentials indicates a password or refresh-token mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
