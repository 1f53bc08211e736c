package service

import (
	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/store"
	"github.com/merolabs/meroview-backend/internal/validator"
)

// ProfileService reads and partially updates the single teacher profile.
type ProfileService struct {
	store *store.ProfileStore
	log   zerolog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(st *store.ProfileStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		store: st,
		log:   log.With().Str("component", "profile_service").Logger(),
	}
}

// Get returns the current profile.
func (s *ProfileService) Get() model.Profile {
	return s.store.Get()
}

// Update merges the non-nil fields of req into the stored profile,
// re-validates the merged record, stores it, and returns it. A merged
// record failing its own schema is an internal defect, not bad input —
// the request fields were already validated at bind time.
func (s *ProfileService) Update(req model.ProfileUpdateRequest) (model.Profile, error) {
	merged := s.store.Get()

	if req.Name != nil {
		merged.Name = *req.Name
	}
	if req.Email != nil {
		merged.Email = *req.Email
	}
	if req.Language != nil {
		merged.Language = *req.Language
	}
	if req.AvatarURL != nil {
		merged.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		merged.Bio = *req.Bio
	}

	if issues := validator.Struct(merged); issues != nil {
		s.log.Error().Interface("issues", issues).Msg("merged profile failed outbound schema")
		return model.Profile{}, &SchemaError{Issues: issues}
	}

	s.store.Set(merged)
	return merged, nil
}
