package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	"github.com/target/fleet-alerts/internal/testutil"
)

func testSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    "u1",
		Email:     "u1@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	store := NewSessionStore(client, SessionStoreOptions{})
	ctx := context.Background()
	sess := testSession("s1", 30*time.Minute)

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Role, got.Role)
	assert.Equal(t, domainauth.Actor{ID: "u1", Role: domainauth.RoleUser}, got.Actor())
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)

	ttl, err := client.TTL(ctx, DefaultSessionPrefix+"s1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 29*time.Minute)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_ExpiredOnRead(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	now := time.Now()
	store := NewSessionStore(client, SessionStoreOptions{Prefix: "test:sess:", Now: func() time.Time { return now }})
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testSession("s2", time.Hour)))

	now = now.Add(2 * time.Hour)
	_, err := store.Get(ctx, "s2")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := client.Exists(ctx, "test:sess:s2").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestSessionStore_Rejects(t *testing.T) {
	client := testutil.SetupTestRedis(t)

	store := NewSessionStore(client, SessionStoreOptions{})
	ctx := context.Background()

	require.Error(t, store.Save(ctx, testSession("", time.Hour)))
	require.Error(t, store.Save(ctx, testSession("s3", -time.Minute)))

	bad := testSession("s4", time.Hour)
	bad.Role = "root"
	require.Error(t, store.Save(ctx, bad))

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, ""))
}
