// internal/domain/session/service.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles guest session business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new session service. The Redis client may be nil;
// lookups then always go to the database.
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// Resolve returns the unexpired session for a token. A missing or expired
// session is not an error: the caller receives (nil, nil) and should treat
// the shopper as having no cart yet.
func (s *Service) Resolve(ctx context.Context, token string) (*GuestSession, error) {
	if token == "" {
		return nil, nil
	}

	if id, ok := s.cachedID(ctx, token); ok {
		var sess GuestSession
		if err := s.db.First(&sess, id).Error; err == nil && !sess.IsExpired() {
			return &sess, nil
		}
	}

	var sess GuestSession
	err := s.db.Where("token = ?", token).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve guest session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}

	s.cacheID(ctx, token, sess.ID, time.Until(sess.ExpiresAt))
	return &sess, nil
}

// Create issues a fresh guest session with a new opaque token
func (s *Service) Create(ctx context.Context) (*GuestSession, error) {
	now := time.Now().UTC()
	sess := GuestSession{
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(s.config.Store.GuestSessionTTL),
	}

	if err := s.db.Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("failed to create guest session: %w", err)
	}

	s.cacheID(ctx, sess.Token, sess.ID, s.config.Store.GuestSessionTTL)
	return &sess, nil
}

// ResolveOrCreate returns the session for a token, minting a new one when
// the token is empty, unknown, or expired.
func (s *Service) ResolveOrCreate(ctx context.Context, token string) (*GuestSession, bool, error) {
	sess, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, false, err
	}
	if sess != nil {
		return sess, false, nil
	}

	sess, err = s.Create(ctx)
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

func (s *Service) cachedID(ctx context.Context, token string) (uint, bool) {
	if s.redisClient == nil {
		return 0, false
	}
	val, err := s.redisClient.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (s *Service) cacheID(ctx context.Context, token string, id uint, ttl time.Duration) {
	if s.redisClient == nil || ttl <= 0 {
		return
	}
	// Best effort; a cold cache only costs a database read
	s.redisClient.Set(ctx, sessionKey(token), strconv.FormatUint(uint64(id), 10), ttl)
}

func sessionKey(token string) string {
	return fmt.Sprintf("guest_session:%s", token)
}
