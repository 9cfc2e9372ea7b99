package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier().Add("tok-u1", "u1", "fleet-users")

	id, err := v.Verify(context.Background(), "tok-u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, []string{"fleet-users"}, id.Groups)

	_, err = v.Verify(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMemorySessionStore(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.Session{}))

	sess := domainauth.Session{ID: "s1", UserID: "u1", Role: domainauth.RoleUser, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticRoleMapper(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}
	assert.Equal(t, domainauth.RoleAdmin, m.Map([]string{"users", "admins"}))
	assert.Equal(t, domainauth.RoleUser, m.Map([]string{"users"}))
	assert.Equal(t, domainauth.RoleGuest, m.Map(nil))
}
