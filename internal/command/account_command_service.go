package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlePlets/otasoft-auth/internal/cqrs"
	"github.com/AlePlets/otasoft-auth/internal/domain"
	"github.com/AlePlets/otasoft-auth/internal/events"
	"github.com/AlePlets/otasoft-auth/internal/password"
	"github.com/AlePlets/otasoft-auth/internal/token"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserStore is the write-side user persistence consumed by the command service.
type UserStore interface {
	Create(user *domain.User) error
	GetByID(id int64) (*domain.User, error)
	GetByEmail(email string) (*domain.User, error)
	UpdatePassword(userID int64, newHash string) error
	MarkConfirmed(userID int64) error
	Delete(userID int64) error
	RemoveRefreshToken(userID int64) error
}

// ConfirmationStore persists pending account confirmations.
type ConfirmationStore interface {
	Create(userID int64, code string) error
	Find(email, code string) (*domain.Confirmation, error)
	Delete(userID int64) error
}

// TokenService issues and verifies forgot-password tokens.
type TokenService interface {
	Issue(userID int64, email string) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

// Mailer delivers account lifecycle emails. Delivery failures are logged,
// never surfaced to the caller.
type Mailer interface {
	SendConfirmationCode(to, username, code string) error
	SendPasswordReset(to, username, token string) error
}

// Publisher appends events to the auth stream.
type Publisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AuthViewInvalidator drops cached read models after a mutation.
type AuthViewInvalidator interface {
	InvalidateAuthID(ctx context.Context, email string)
}

// AccountCommandService writes account state to PostgreSQL, keeps the Redis
// read model current and publishes lifecycle events.
type AccountCommandService struct {
	users         UserStore
	confirmations ConfirmationStore
	readRepo      AuthViewInvalidator
	hasher        *password.Hasher
	tokens        TokenService
	mailer        Mailer
	publisher     Publisher
	logger        *logrus.Logger
}

func NewAccountCommandService(
	users UserStore,
	confirmations ConfirmationStore,
	readRepo AuthViewInvalidator,
	hasher *password.Hasher,
	tokens TokenService,
	mailer Mailer,
	publisher Publisher,
	logger *logrus.Logger,
) *AccountCommandService {
	return &AccountCommandService{
		users:         users,
		confirmations: confirmations,
		readRepo:      readRepo,
		hasher:        hasher,
		tokens:        tokens,
		mailer:        mailer,
		publisher:     publisher,
		logger:        logger,
	}
}

// SignUp creates an unconfirmed account and a pending confirmation record,
// then mails the confirmation code. Returns domain.ErrDuplicateUser when the
// username or email is already registered; nothing partial is persisted in
// that case.
func (s *AccountCommandService) SignUp(cmd cqrs.SignUpCommand) (*domain.User, error) {
	passwordHash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: passwordHash,
		Confirmed:    false,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	code := uuid.NewString()
	if err := s.confirmations.Create(user.ID, code); err != nil {
		// roll the signup back so the username is not left taken by an
		// account that can never be confirmed
		if delErr := s.users.Delete(user.ID); delErr != nil {
			s.logger.Errorf("Failed to roll back user %d after confirmation failure: %v", user.ID, delErr)
		}
		return nil, err
	}
	if err := s.mailer.SendConfirmationCode(user.Email, user.Username, code); err != nil {
		s.logger.Warnf("Failed to send confirmation email to user %d: %v", user.ID, err)
	}

	s.publish(events.UserRegistered, events.UserRegisteredEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	return user, nil
}

// ChangePassword persists a new password hash. When the command carries the
// old password it is verified first and a mismatch fails with
// domain.ErrInvalidCredentials.
func (s *AccountCommandService) ChangePassword(cmd cqrs.ChangePasswordCommand) (string, error) {
	if cmd.OldPassword != "" {
		user, err := s.users.GetByID(cmd.UserID)
		if err != nil {
			return "", err
		}
		if !s.hasher.Verify(cmd.OldPassword, user.PasswordHash) {
			return "", domain.ErrInvalidCredentials
		}
	}

	newHash, err := s.hasher.Hash(cmd.NewPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(cmd.UserID, newHash); err != nil {
		return "", err
	}

	s.publish(events.PasswordChanged, events.PasswordChangedEvent{UserID: cmd.UserID})
	return "Password changed successfully", nil
}

// ForgotPassword issues a reset token for the account registered under the
// email and mails it. An unknown email yields an empty token and no error so
// the endpoint cannot be used to enumerate accounts.
func (s *AccountCommandService) ForgotPassword(cmd cqrs.ForgotPasswordCommand) (string, error) {
	user, err := s.users.GetByEmail(cmd.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	resetToken, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(user.Email, user.Username, resetToken); err != nil {
		s.logger.Warnf("Failed to send reset email to user %d: %v", user.ID, err)
	}
	return resetToken, nil
}

// SetNewPassword consumes a forgot-password token and stores the new
// password for the claimed user. Any token failure surfaces as
// domain.ErrInvalidResetToken.
func (s *AccountCommandService) SetNewPassword(cmd cqrs.SetNewPasswordCommand) (string, error) {
	claims, err := s.tokens.Verify(cmd.ForgotPasswordToken)
	if err != nil {
		return "", domain.ErrInvalidResetToken
	}

	newHash, err := s.hasher.Hash(cmd.NewPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(claims.UserID, newHash); err != nil {
		return "", err
	}

	s.publish(events.PasswordChanged, events.PasswordChangedEvent{UserID: claims.UserID})
	return "Password updated successfully", nil
}

// ConfirmAccount consumes the pending confirmation matching the email/code
// pair and marks the user confirmed. A missing record fails with
// domain.ErrConfirmationNotFound.
func (s *AccountCommandService) ConfirmAccount(cmd cqrs.ConfirmAccountCommand) error {
	confirmation, err := s.confirmations.Find(cmd.Email, cmd.Code)
	if err != nil {
		return err
	}

	if err := s.users.MarkConfirmed(confirmation.UserID); err != nil {
		return err
	}
	if err := s.confirmations.Delete(confirmation.UserID); err != nil {
		s.logger.Warnf("Failed to delete confirmation for user %d: %v", confirmation.UserID, err)
	}

	s.publish(events.UserConfirmed, events.UserConfirmedEvent{UserID: confirmation.UserID})
	return nil
}

// DeleteAccount removes the user and invalidates the cached auth-id view.
func (s *AccountCommandService) DeleteAccount(cmd cqrs.DeleteAccountCommand) (string, error) {
	user, err := s.users.GetByID(cmd.UserID)
	if err != nil {
		return "", err
	}
	if err := s.users.Delete(cmd.UserID); err != nil {
		return "", err
	}
	s.readRepo.InvalidateAuthID(context.Background(), user.Email)

	s.publish(events.UserDeleted, events.UserDeletedEvent{UserID: cmd.UserID})
	return fmt.Sprintf("Account %d has been deleted", cmd.UserID), nil
}

// RemoveRefreshToken clears the stored refresh-session token for the user.
func (s *AccountCommandService) RemoveRefreshToken(cmd cqrs.RemoveRefreshTokenCommand) error {
	return s.users.RemoveRefreshToken(cmd.UserID)
}

func (s *AccountCommandService) publish(eventType string, data any) {
	if err := s.publisher.Publish(context.Background(), events.AuthEventsStream, eventType, data); err != nil {
		s.logger.Warnf("Failed to publish %s event: %v", eventType, err)
	}
}
