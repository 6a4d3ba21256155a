package cqrs

// GetAuthIDQuery resolves a user's numeric id. Either field may be set;
// email wins when both are present.
type GetAuthIDQuery struct {
	Email    string
	Username string
}

// ValidateCredentialsQuery checks a username/password pair.
type ValidateCredentialsQuery struct {
	Username string
	Password string
}

// GetRefreshUserQuery fetches a user if the presented refresh token matches
// the stored one.
type GetRefreshUserQuery struct {
	UserID       int64
	RefreshToken string
}
