package service

import (
	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/simulation"
	"github.com/merolabs/meroview-backend/internal/validator"
)

// LiveService wraps the simulation engine and validates every state it
// emits. Each live read advances the simulation one tick — the exam
// "plays itself" while at least one dashboard is polling; this progression
// compounds, unlike the list endpoints' read-time noise.
type LiveService struct {
	engine *simulation.Engine
	log    zerolog.Logger
}

// NewLiveService creates a LiveService around an engine.
func NewLiveService(engine *simulation.Engine, log zerolog.Logger) *LiveService {
	return &LiveService{
		engine: engine,
		log:    log.With().Str("component", "live_service").Logger(),
	}
}

// Tick advances the simulation and returns the validated new state.
func (s *LiveService) Tick() (model.LiveState, error) {
	return s.validated(s.engine.AdvanceTick())
}

// State returns the validated current state without advancing it.
func (s *LiveService) State() (model.LiveState, error) {
	return s.validated(s.engine.State())
}

func (s *LiveService) validated(state model.LiveState) (model.LiveState, error) {
	if issues := validator.Struct(state); issues != nil {
		s.log.Error().Interface("issues", issues).Msg("live state failed outbound schema")
		return model.LiveState{}, &SchemaError{Issues: issues}
	}
	return state, nil
}
