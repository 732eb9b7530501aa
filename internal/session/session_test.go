package session

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *FileStorage) {
	t.Helper()

	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	store, err := New(storage, zerolog.Nop())
	require.NoError(t, err)

	return store, storage
}

func TestStore_SetToken_WritesThrough(t *testing.T) {
	store, storage := newTestStore(t)

	require.NoError(t, store.SetToken("tok-123"))

	assert.Equal(t, "tok-123", store.Token())
	assert.True(t, store.IsLoggedIn())

	value, ok, err := storage.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-123", value)
}

func TestStore_SetToken_EmptyRemovesDurableEntry(t *testing.T) {
	store, storage := newTestStore(t)

	require.NoError(t, store.SetToken("tok-123"))
	require.NoError(t, store.SetToken(""))

	assert.False(t, store.IsLoggedIn())

	_, ok, err := storage.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SetUserInfo_WritesThrough(t *testing.T) {
	store, storage := newTestStore(t)

	profile := &UserProfile{ID: 7, Username: "ada", Nickname: "Ada", Roles: []string{"admin"}}
	require.NoError(t, store.SetUserInfo(profile))

	raw, ok, err := storage.Get(KeyUserInfo)
	require.NoError(t, err)
	require.True(t, ok)

	var persisted UserProfile
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, *profile, persisted)

	// nil removes the durable entry
	require.NoError(t, store.SetUserInfo(nil))
	_, ok, err = storage.Get(KeyUserInfo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearUserInfo(t *testing.T) {
	store, storage := newTestStore(t)

	require.NoError(t, store.SetToken("tok-123"))
	require.NoError(t, store.SetUserInfo(&UserProfile{ID: 1, Username: "ada", Roles: []string{"super_admin"}}))
	require.True(t, store.IsAdmin())

	require.NoError(t, store.ClearUserInfo())

	assert.False(t, store.IsLoggedIn())
	assert.False(t, store.IsAdmin())
	assert.False(t, store.IsSuperAdmin())
	assert.Nil(t, store.UserInfo())

	_, ok, err := storage.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = storage.Get(KeyUserInfo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_DerivedFlags(t *testing.T) {
	tests := []struct {
		name         string
		roles        []string
		isAdmin      bool
		isSuperAdmin bool
	}{
		{name: "admin role", roles: []string{"admin"}, isAdmin: true, isSuperAdmin: false},
		{name: "super_admin role", roles: []string{"super_admin"}, isAdmin: true, isSuperAdmin: true},
		{name: "no roles", roles: nil, isAdmin: false, isSuperAdmin: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			require.NoError(t, store.SetUserInfo(&UserProfile{ID: 1, Username: "u", Roles: tt.roles}))

			assert.Equal(t, tt.isAdmin, store.IsAdmin())
			assert.Equal(t, tt.isSuperAdmin, store.IsSuperAdmin())
		})
	}
}

func TestStore_InitRestoresPersistedState(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Set(KeyToken, "persisted-token"))
	require.NoError(t, storage.Set(KeyUserInfo, `{"id":3,"username":"grace","nickname":"Grace","email":"g@example.com"}`))

	store, err := New(storage, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "persisted-token", store.Token())
	require.NotNil(t, store.UserInfo())
	assert.Equal(t, "grace", store.Username())
	assert.Equal(t, "Grace", store.Nickname())
}

func TestStore_InitSelfHealsCorruptUserInfo(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, storage.Set(KeyUserInfo, "{not json"))

	store, err := New(storage, zerolog.Nop())
	require.NoError(t, err)

	assert.Nil(t, store.UserInfo())

	// The corrupt entry is purged, not left to fail again.
	_, ok, err := storage.Get(KeyUserInfo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_NicknameFallsBackToUsername(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SetUserInfo(&UserProfile{ID: 1, Username: "ada"}))
	assert.Equal(t, "ada", store.Nickname())
}
