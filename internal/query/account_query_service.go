package query

import (
	"context"
	"errors"

	"github.com/AlePlets/otasoft-auth/internal/cqrs"
	"github.com/AlePlets/otasoft-auth/internal/domain"
	"github.com/AlePlets/otasoft-auth/internal/password"
)

// UserReader is the user lookup surface consumed by the query service.
type UserReader interface {
	GetByID(id int64) (*domain.User, error)
	GetByUsername(username string) (*domain.User, error)
}

// AuthIDReader resolves auth ids through the cached read model.
type AuthIDReader interface {
	GetAuthIDByEmail(ctx context.Context, email string) (int64, error)
}

// AccountQueryService answers the read side of the auth surface. It never
// mutates state, so there is no event publication here.
type AccountQueryService struct {
	users    UserReader
	readRepo AuthIDReader
	hasher   *password.Hasher
}

func NewAccountQueryService(users UserReader, readRepo AuthIDReader, hasher *password.Hasher) *AccountQueryService {
	return &AccountQueryService{users: users, readRepo: readRepo, hasher: hasher}
}

// GetAuthID resolves the numeric account id for an email or username.
// Email lookups go through the Redis-backed read model.
func (s *AccountQueryService) GetAuthID(q cqrs.GetAuthIDQuery) (int64, error) {
	if q.Email != "" {
		return s.readRepo.GetAuthIDByEmail(context.Background(), q.Email)
	}
	user, err := s.users.GetByUsername(q.Username)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// ValidateCredentials returns the username when the pair matches and an
// empty string otherwise. An unknown username and a wrong password are
// indistinguishable to the caller; neither is an error.
func (s *AccountQueryService) ValidateCredentials(q cqrs.ValidateCredentialsQuery) (string, error) {
	user, err := s.users.GetByUsername(q.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !s.hasher.Verify(q.Password, user.PasswordHash) {
		return "", nil
	}
	return user.Username, nil
}

// GetRefreshUser returns the user when the presented refresh token matches
// the stored one, and domain.ErrInvalidCredentials otherwise. The stored
// hash is written by the session issuer (the gateway's login flow); this
// service only reads and clears it.
func (s *AccountQueryService) GetRefreshUser(q cqrs.GetRefreshUserQuery) (*domain.User, error) {
	user, err := s.users.GetByID(q.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.RefreshTokenHash == "" || !s.hasher.Verify(q.RefreshToken, user.RefreshTokenHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
