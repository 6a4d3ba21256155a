package cqrs

type SignUpCommand struct {
	Username string
	Email    string
	Password string
}

type ChangePasswordCommand struct {
	UserID      int64
	OldPassword string
	NewPassword string
}

type SetNewPasswordCommand struct {
	ForgotPasswordToken string
	NewPassword         string
}

type ConfirmAccountCommand struct {
	Email string
	Code  string
}

type DeleteAccountCommand struct {
	UserID int64
}

type RemoveRefreshTokenCommand struct {
	UserID int64
}

type ForgotPasswordCommand struct {
	Email string
}
