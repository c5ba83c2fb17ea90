package repositories

import (
	"context"
	"sync"
	"time"

	"healthtrack/internal/database"
	"healthtrack/internal/logger"
)

const revokedSessionPrefix = "session:revoked:"

// SessionRepository remembers session tokens that were ended before they
// expired.
type SessionRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NewSession returns a valkey backed repository when a session cache is
// configured and an in-process one otherwise.
func NewSession(db database.DB) SessionRepository {
	if db.Cache.Session != nil {
		return &cacheSessionRepository{
			client: db.Cache.Session,
			log:    logger.New("sessionRepository").File("cache"),
		}
	}
	return NewMemorySession()
}

type cacheSessionRepository struct {
	client database.CacheClient
	log    logger.Logger
}

func (r *cacheSessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	cmd := r.client.B().Set().Key(revokedSessionPrefix + tokenID).Value("1").Ex(ttl).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return r.log.Function("Revoke").Err("failed to revoke session", err, "tokenID", tokenID)
	}

	return nil
}

func (r *cacheSessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	cmd := r.client.B().Exists().Key(revokedSessionPrefix + tokenID).Build()
	count, err := r.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return false, r.log.Function("IsRevoked").
			Err("failed to check session revocation", err, "tokenID", tokenID)
	}

	return count > 0, nil
}

type memorySessionRepository struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemorySession() SessionRepository {
	return &memorySessionRepository{
		revoked: map[string]time.Time{},
		now:     time.Now,
	}
}

func (r *memorySessionRepository) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, expiry := range r.revoked {
		if !now.Before(expiry) {
			delete(r.revoked, id)
		}
	}
	r.revoked[tokenID] = now.Add(ttl)

	return nil
}

func (r *memorySessionRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry, ok := r.revoked[tokenID]
	return ok && r.now().Before(expiry), nil
}
