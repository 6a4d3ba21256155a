package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AlePlets/otasoft-auth/internal/domain"
)

// ConfirmationRepository stores pending account-confirmation records.
// A record is created at signup and deleted once the account is confirmed;
// stale records are purged by a scheduled job.
type ConfirmationRepository struct {
	db *sql.DB
}

func NewConfirmationRepository(db *sql.DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

func (r *ConfirmationRepository) Create(userID int64, code string) error {
	query := `INSERT INTO account_confirmations (user_id, code, created_at) VALUES ($1, $2, NOW())`
	if _, err := r.db.Exec(query, userID, code); err != nil {
		return fmt.Errorf("failed to create confirmation: %w", err)
	}
	return nil
}

// Find returns the pending confirmation matching the email/code pair, or
// domain.ErrConfirmationNotFound when there is none.
func (r *ConfirmationRepository) Find(email, code string) (*domain.Confirmation, error) {
	query := `
		SELECT c.user_id, c.code, c.created_at
		FROM account_confirmations c
		JOIN users u ON u.id = c.user_id
		WHERE u.email = $1 AND c.code = $2 AND u.deleted_at IS NULL
	`
	var confirmation domain.Confirmation
	err := r.db.QueryRow(query, email, code).Scan(
		&confirmation.UserID, &confirmation.Code, &confirmation.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrConfirmationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return &confirmation, nil
}

func (r *ConfirmationRepository) Delete(userID int64) error {
	query := `DELETE FROM account_confirmations WHERE user_id = $1`
	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to delete confirmation: %w", err)
	}
	return nil
}

// DeleteExpired removes confirmations older than maxAge and reports how many
// were purged.
func (r *ConfirmationRepository) DeleteExpired(maxAge time.Duration) (int64, error) {
	query := `DELETE FROM account_confirmations WHERE created_at < $1`
	result, err := r.db.Exec(query, time.Now().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("failed to purge confirmations: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows, nil
}
