package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AlePlets/otasoft-auth/internal/domain"
	sharedredis "github.com/AlePlets/otasoft-auth/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const authIDKeyPrefix = "auth:id:"

// AuthReadRepository serves the auth-id lookup. It uses Redis as the primary
// read store, falling back to PostgreSQL on a miss.
type AuthReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[domain.AuthIDView]
}

func NewAuthReadRepository(db *sql.DB, redisClient *goredis.Client) *AuthReadRepository {
	return &AuthReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[domain.AuthIDView](redisClient, 0),
	}
}

// GetAuthIDByEmail returns the user's id from Redis first, then PostgreSQL.
func (r *AuthReadRepository) GetAuthIDByEmail(ctx context.Context, email string) (int64, error) {
	cacheKey := authIDKeyPrefix + email

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view.AuthID, nil
	}

	// Fallback: PostgreSQL
	query := `SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL`
	var id int64
	err := r.db.QueryRow(query, email).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, domain.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get auth id: %w", err)
	}

	// Warm the cache
	r.cache.Set(ctx, cacheKey, &domain.AuthIDView{AuthID: id})
	return id, nil
}

// InvalidateAuthID removes the cached id for a deleted user.
func (r *AuthReadRepository) InvalidateAuthID(ctx context.Context, email string) {
	r.cache.Delete(ctx, authIDKeyPrefix+email)
}
