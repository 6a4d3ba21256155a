package domain

import "time"

// User is the persisted account entity. PasswordHash and RefreshTokenHash
// never leave the repository/hasher boundary in API responses.
type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	RefreshTokenHash string    `json:"-"`
	Confirmed        bool      `json:"confirmed"`
	CreatedAt        time.Time `json:"createdTimestamp"`
	UpdatedAt        time.Time `json:"updatedTimestamp"`
}

// AuthIDView is the read-optimised projection backing the auth.getId lookup.
type AuthIDView struct {
	AuthID int64 `json:"auth_id"`
}

// Confirmation is a pending account-confirmation record. It is created at
// signup and consumed exactly once when the user confirms the account.
type Confirmation struct {
	UserID    int64     `json:"userId"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}
