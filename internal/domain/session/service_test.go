package session

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&GuestSession{}))

	cfg := &config.Config{}
	cfg.Store.GuestSessionTTL = 30 * 24 * time.Hour

	// nil Redis: all lookups hit the database
	return NewService(db, nil, cfg), db
}

func TestResolve_EmptyToken(t *testing.T) {
	svc, _ := setupTestService(t)

	sess, err := svc.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestResolve_UnknownToken(t *testing.T) {
	svc, _ := setupTestService(t)

	sess, err := svc.Resolve(context.Background(), "not-a-real-token")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestCreateAndResolve(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, created.Token)
	assert.False(t, created.IsExpired())

	resolved, err := svc.Resolve(ctx, created.Token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestResolve_ExpiredSessionIsInvisible(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, db.Model(created).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)

	resolved, err := svc.Resolve(ctx, created.Token)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestResolveOrCreate(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	// No token: a new session is minted
	sess, isNew, err := svc.ResolveOrCreate(ctx, "")
	require.NoError(t, err)
	assert.True(t, isNew)
	require.NotNil(t, sess)

	// Same token resolves to the same session
	again, isNew, err := svc.ResolveOrCreate(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, sess.ID, again.ID)

	// An expired token gets a replacement with a different token
	require.NoError(t, db.Model(sess).
		Update("expires_at", time.Now().UTC().Add(-time.Hour)).Error)

	replacement, isNew, err := svc.ResolveOrCreate(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, sess.Token, replacement.Token)
}
