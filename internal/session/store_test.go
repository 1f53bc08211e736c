package session

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merolabs/meroview-backend/internal/model"
)

func newTestPair(t *testing.T) (*Store, *Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	bus := NewMemoryBus()
	a := NewStore(kv, bus, zerolog.Nop())
	b := NewStore(kv, bus, zerolog.Nop())
	t.Cleanup(a.Close)
	t.Cleanup(b.Close)
	return a, b, kv
}

func TestHydrationTriState(t *testing.T) {
	kv := NewMemoryKV()
	s := NewStore(kv, NewMemoryBus(), zerolog.Nop())
	defer s.Close()
	ctx := context.Background()

	// before hydration: unknown, not logged out.
	assert.False(t, s.Hydrated())
	_, ok := s.User()
	assert.False(t, ok)

	require.NoError(t, s.Hydrate(ctx))

	// after hydration with empty storage: definitively logged out.
	assert.True(t, s.Hydrated())
	_, ok = s.User()
	assert.False(t, ok)
}

func TestHydrateAdoptsStoredUser(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, KeyUser, `{"id":"u1","name":"Nadia","role":"Teacher"}`))

	s := NewStore(kv, NewMemoryBus(), zerolog.Nop())
	defer s.Close()
	require.NoError(t, s.Hydrate(ctx))

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Nadia", user.Name)
	assert.Equal(t, model.RoleTeacher, user.Role)
}

func TestHydrateCorruptUserReadsAsLoggedOut(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, KeyUser, "{not json"))

	s := NewStore(kv, NewMemoryBus(), zerolog.Nop())
	defer s.Close()
	require.NoError(t, s.Hydrate(ctx))

	assert.True(t, s.Hydrated())
	_, ok := s.User()
	assert.False(t, ok)
}

func TestLoginBroadcastsToOtherClients(t *testing.T) {
	a, b, kv := newTestPair(t)
	ctx := context.Background()
	require.NoError(t, a.Hydrate(ctx))
	require.NoError(t, b.Hydrate(ctx))

	user := model.SessionUser{ID: "u1", Name: "Nadia", Role: model.RoleTeacher}
	require.NoError(t, a.Login(ctx, user, LoginOptions{Token: "tok-1"}))

	// the other client re-read storage and adopted the session; the
	// publisher's own re-read of its just-written state is harmless.
	got, ok := b.User()
	require.True(t, ok)
	assert.Equal(t, user, got)

	got, ok = a.User()
	require.True(t, ok)
	assert.Equal(t, user, got)

	tok, ok, err := kv.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
}

func TestLoginNoPersistStaysLocal(t *testing.T) {
	a, _, kv := newTestPair(t)
	ctx := context.Background()
	require.NoError(t, a.Hydrate(ctx))

	user := model.SessionUser{ID: "u1", Name: "Nadia"}
	require.NoError(t, a.Login(ctx, user, LoginOptions{NoPersist: true}))

	got, ok := a.User()
	require.True(t, ok)
	assert.Equal(t, user, got)

	_, ok, err := kv.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok, "non-persisted session must not reach storage")
}

func TestLogoutClearsEverywhere(t *testing.T) {
	a, b, kv := newTestPair(t)
	ctx := context.Background()
	require.NoError(t, a.Hydrate(ctx))
	require.NoError(t, b.Hydrate(ctx))

	require.NoError(t, a.Login(ctx, model.SessionUser{ID: "u1", Name: "Nadia"}, LoginOptions{Token: "tok-1"}))
	require.NoError(t, b.Logout(ctx))

	// both clients are logged out and storage is cleared.
	_, ok := a.User()
	assert.False(t, ok)
	_, ok = b.User()
	assert.False(t, ok)

	_, ok, err := kv.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = kv.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUserPropagates(t *testing.T) {
	a, b, _ := newTestPair(t)
	ctx := context.Background()
	require.NoError(t, a.Hydrate(ctx))
	require.NoError(t, b.Hydrate(ctx))

	require.NoError(t, a.Login(ctx, model.SessionUser{ID: "u1", Name: "Nadia", Email: "n@example.com"}, LoginOptions{}))

	newName := "Nadia K."
	require.NoError(t, a.UpdateUser(ctx, UserPatch{Name: &newName}))

	got, ok := b.User()
	require.True(t, ok)
	assert.Equal(t, "Nadia K.", got.Name)
	// untouched fields survive the patch.
	assert.Equal(t, "n@example.com", got.Email)
}

func TestUpdateUserWithoutSessionStartsFromDefault(t *testing.T) {
	a, _, _ := newTestPair(t)
	ctx := context.Background()
	require.NoError(t, a.Hydrate(ctx))

	name := "Mero"
	require.NoError(t, a.UpdateUser(ctx, UserPatch{Name: &name}))

	got, ok := a.User()
	require.True(t, ok)
	assert.Equal(t, "me", got.ID)
	assert.Equal(t, "Mero", got.Name)
}

func TestSettingsDefaultsAndRoundTrip(t *testing.T) {
	a, b, _ := newTestPair(t)
	ctx := context.Background()

	assert.Equal(t, model.DefaultAppSettings(), a.Settings(ctx))

	custom := model.AppSettings{
		ThemeMode:   "dark",
		Language:    model.LanguageArabic,
		GridDensity: model.DensityCompact,
		Notifications: model.SettingNotifications{
			Email:   false,
			Desktop: true,
		},
	}
	require.NoError(t, a.SaveSettings(ctx, custom))

	// settings are shared storage, not per-client state.
	assert.Equal(t, custom, b.Settings(ctx))
}

func TestSettingsCorruptFallsBackToDefaults(t *testing.T) {
	a, _, kv := newTestPair(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, KeySettings, "???"))

	assert.Equal(t, model.DefaultAppSettings(), a.Settings(ctx))
}

func TestSyncEnvelopeWrittenOnBroadcast(t *testing.T) {
	a, _, kv := newTestPair(t)
	ctx := context.Background()
	require.NoError(t, a.Hydrate(ctx))

	require.NoError(t, a.Login(ctx, model.SessionUser{ID: "u1", Name: "Nadia"}, LoginOptions{}))

	raw, ok, err := kv.Get(ctx, KeySync)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"type":"login"`)
	assert.Contains(t, raw, `"id":"u1"`)
}

func TestClosedStoreIgnoresBroadcasts(t *testing.T) {
	kv := NewMemoryKV()
	bus := NewMemoryBus()
	ctx := context.Background()

	a := NewStore(kv, bus, zerolog.Nop())
	b := NewStore(kv, bus, zerolog.Nop())
	require.NoError(t, a.Hydrate(ctx))
	require.NoError(t, b.Hydrate(ctx))
	b.Close()

	require.NoError(t, a.Login(ctx, model.SessionUser{ID: "u1", Name: "Nadia"}, LoginOptions{}))
	a.Close()

	_, ok := b.User()
	assert.False(t, ok, "closed store must not adopt later sessions")
}
