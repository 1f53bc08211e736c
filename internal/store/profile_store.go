package store

import (
	"sync"

	"github.com/merolabs/meroview-backend/internal/model"
)

// ProfileStore holds the single teacher profile. Unlike the list stores it
// is mutable: profile updates do persist for the life of the process.
type ProfileStore struct {
	mu      sync.RWMutex
	current model.Profile
}

// NewProfileStore seeds the default profile record.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		current: model.Profile{
			ID:       "me",
			Name:     "Mero",
			Email:    "mero@example.com",
			Role:     model.RoleTeacher,
			Language: model.LanguageEnglish,
			Bio:      "",
		},
	}
}

// Get returns the current profile.
func (s *ProfileStore) Get() model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the stored profile.
func (s *ProfileStore) Set(p model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p
}
