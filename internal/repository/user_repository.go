package repository

import (
	"database/sql"
	"fmt"

	"github.com/AlePlets/otasoft-auth/internal/domain"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, refresh_token_hash, confirmed, created_at, updated_at`

// UserWriteRepository handles all state-mutating operations for users.
// It operates exclusively against the PostgreSQL write store (source of truth)
// and re-classifies driver errors into domain errors before they leave the
// layer.
type UserWriteRepository struct {
	db *sql.DB
}

func NewUserWriteRepository(db *sql.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts the user and fills in the generated id. A unique-constraint
// violation on username or email maps to domain.ErrDuplicateUser.
func (r *UserWriteRepository) Create(user *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(query,
		user.Username, user.Email, user.PasswordHash, user.Confirmed,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID fetches the full write model (including PasswordHash) for internal operations.
func (r *UserWriteRepository) GetByID(id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRow(query, id))
}

func (r *UserWriteRepository) GetByEmail(email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRow(query, email))
}

func (r *UserWriteRepository) GetByUsername(username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`
	return r.scanUser(r.db.QueryRow(query, username))
}

func (r *UserWriteRepository) UpdatePassword(userID int64, newHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return r.execExpectingUser(query, userID, newHash)
}

func (r *UserWriteRepository) MarkConfirmed(userID int64) error {
	query := `UPDATE users SET confirmed = TRUE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return r.execExpectingUser(query, userID)
}

// Delete soft-deletes the user; the partial unique indexes free the username
// and email for re-registration.
func (r *UserWriteRepository) Delete(userID int64) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return r.execExpectingUser(query, userID)
}

// RemoveRefreshToken clears the stored refresh-session token for the user.
func (r *UserWriteRepository) RemoveRefreshToken(userID int64) error {
	query := `UPDATE users SET refresh_token_hash = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return r.execExpectingUser(query, userID)
}

func (r *UserWriteRepository) execExpectingUser(query string, args ...any) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserWriteRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var refreshHash sql.NullString

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&refreshHash, &user.Confirmed, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if refreshHash.Valid {
		user.RefreshTokenHash = refreshHash.String
	}
	return &user, nil
}
