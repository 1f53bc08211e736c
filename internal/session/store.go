package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/model"
)

// LoginOptions modifies Login behavior. Zero value means: no token,
// persist to durable storage.
type LoginOptions struct {
	Token string
	// NoPersist keeps the session in memory only — the user is logged in
	// until this process exits, and other clients never see it.
	NoPersist bool
}

// UserPatch is a partial session-user update; nil fields are untouched.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *model.ProfileRole
}

// Store holds the client-side authentication session. In-memory state is
// the fast path; durable KV is the source of truth shared with other
// clients, and Bus envelopes tell everyone when to re-read it.
//
// Before Hydrate completes, the session is explicitly "unknown" rather
// than "logged out" — consumers gate redirect-to-login on Hydrated() to
// avoid bouncing a logged-in user whose state simply has not loaded yet.
type Store struct {
	kv  KV
	bus Bus
	log zerolog.Logger

	mu       sync.RWMutex
	hydrated bool
	user     *model.SessionUser

	cancelSub func()
}

// NewStore creates a Store and subscribes it to the sync bus. Call Close
// when done; call Hydrate before trusting User.
func NewStore(kv KV, bus Bus, log zerolog.Logger) *Store {
	s := &Store{
		kv:  kv,
		bus: bus,
		log: log.With().Str("component", "session_store").Logger(),
	}
	s.cancelSub = bus.Subscribe(s.onSync)
	return s
}

// Close unsubscribes from the sync bus.
func (s *Store) Close() {
	if s.cancelSub != nil {
		s.cancelSub()
	}
}

// Hydrate loads the stored user into memory. Safe to call more than once.
func (s *Store) Hydrate(ctx context.Context) error {
	user, err := s.readUser(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.hydrated = true
	s.mu.Unlock()
	return nil
}

// Hydrated reports whether the initial storage read has completed.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// User returns the in-memory session user. ok is false both before
// hydration and when hydration found no user; check Hydrated to tell the
// two apart.
func (s *Store) User() (model.SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.SessionUser{}, false
	}
	return *s.user, true
}

// Login adopts the user, persists it (unless opts.NoPersist), and
// broadcasts so other clients re-read storage.
func (s *Store) Login(ctx context.Context, user model.SessionUser, opts LoginOptions) error {
	s.mu.Lock()
	u := user
	s.user = &u
	s.hydrated = true
	s.mu.Unlock()

	// A non-persisted session exists only in this process: there is
	// nothing in storage for other clients to adopt, so broadcasting
	// would just make them re-read an empty key and log out.
	if opts.NoPersist {
		return nil
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(raw)); err != nil {
		return err
	}
	if opts.Token != "" {
		if err := s.kv.Set(ctx, KeyToken, opts.Token); err != nil {
			return err
		}
	}

	return s.broadcast(ctx, model.SyncLogin, &model.SyncPayload{ID: user.ID})
}

// Logout clears the user and token everywhere and broadcasts.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.hydrated = true
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, KeyUser); err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, KeyToken); err != nil {
		return err
	}

	return s.broadcast(ctx, model.SyncLogout, nil)
}

// UpdateUser merges patch into the current user, persists, and broadcasts.
// With no current user it starts from the default identity, mirroring a
// profile edit made before the session hydrated.
func (s *Store) UpdateUser(ctx context.Context, patch UserPatch) error {
	s.mu.Lock()
	next := model.SessionUser{ID: "me"}
	if s.user != nil {
		next = *s.user
	}
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	if patch.Role != nil {
		next.Role = *patch.Role
	}
	s.user = &next
	s.mu.Unlock()

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(raw)); err != nil {
		return err
	}

	return s.broadcast(ctx, model.SyncUpdate, &model.SyncPayload{ID: next.ID})
}

// Settings reads the stored UI preferences, falling back to defaults when
// absent or unreadable.
func (s *Store) Settings(ctx context.Context) model.AppSettings {
	raw, ok, err := s.kv.Get(ctx, KeySettings)
	if err != nil || !ok {
		return model.DefaultAppSettings()
	}
	var settings model.AppSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.Warn().Err(err).Msg("Stored settings unreadable, using defaults")
		return model.DefaultAppSettings()
	}
	return settings
}

// SaveSettings persists the UI preferences.
func (s *Store) SaveSettings(ctx context.Context, settings model.AppSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return s.kv.Set(ctx, KeySettings, string(raw))
}

// broadcast writes the transient envelope under KeySync (for storage-event
// transports) and publishes it on the bus.
func (s *Store) broadcast(ctx context.Context, typ model.SyncType, payload *model.SyncPayload) error {
	env := model.SyncEnvelope{Type: typ, Ts: time.Now().UnixMilli(), Payload: payload}

	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := s.kv.Set(ctx, KeySync, string(raw)); err != nil {
		return err
	}
	return s.bus.Publish(ctx, env)
}

// onSync reacts to a broadcast from any client (possibly this one — the
// re-read is idempotent). The envelope is only a wake-up: for login/update
// the user is re-read from storage rather than taken from the payload.
func (s *Store) onSync(env model.SyncEnvelope) {
	switch env.Type {
	case model.SyncLogout:
		s.mu.Lock()
		s.user = nil
		s.hydrated = true
		s.mu.Unlock()

	case model.SyncLogin, model.SyncUpdate:
		user, err := s.readUser(context.Background())
		if err != nil {
			s.log.Warn().Err(err).Msg("Sync re-read failed, keeping local session")
			return
		}
		s.mu.Lock()
		s.user = user
		s.hydrated = true
		s.mu.Unlock()
	}
}

func (s *Store) readUser(ctx context.Context) (*model.SessionUser, error) {
	raw, ok, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var user model.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// Corrupt storage reads as "no user" rather than an error, same
		// as a malformed localStorage entry.
		return nil, nil
	}
	return &user, nil
}
