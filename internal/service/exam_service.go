package service

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/store"
	"github.com/merolabs/meroview-backend/internal/validator"
)

// Exams list read-time delta parameters.
const (
	// An in-progress exam advances on a given read with this probability.
	ExamAdvanceProbability = 0.6
	// completedCount grows by a uniform draw from [0, ExamCompletedStepBound).
	ExamCompletedStepBound = 3
	// avgScore drifts by a uniform value in [-ExamScoreDrift, +ExamScoreDrift).
	ExamScoreDrift = 3.0
)

// ExamService serves the exams list with per-request "as of now" deltas.
// Deltas are recomputed from the immutable base on every call and never
// written back, so the simulated progress does not compound across
// requests — read-time noise, unlike the live engine's true progression.
type ExamService struct {
	store *store.ExamStore
	log   zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewExamService creates an ExamService. Pass a seeded rng and/or a fixed
// clock for deterministic tests; nil selects production defaults.
func NewExamService(st *store.ExamStore, rng *rand.Rand, log zerolog.Logger) *ExamService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ExamService{
		store: st,
		log:   log.With().Str("component", "exam_service").Logger(),
		rng:   rng,
		now:   time.Now,
	}
}

// List applies read-time deltas, then the q substring filter, then the
// status equality filter, and validates every outgoing record.
func (s *ExamService) List(query model.ListQuery) (*model.ExamsResponse, error) {
	snap := s.snapshotBase()

	filtered := snap
	if query.Q != "" {
		qq := strings.ToLower(query.Q)
		filtered = filtered[:0]
		for _, e := range snap {
			if strings.Contains(strings.ToLower(e.Title), qq) ||
				strings.Contains(strings.ToLower(e.Subject), qq) {
				filtered = append(filtered, e)
			}
		}
	}
	if query.Status != "" {
		kept := filtered[:0]
		for _, e := range filtered {
			if e.Status == model.ExamStatus(query.Status) {
				kept = append(kept, e)
			}
		}
		filtered = kept
	}

	for _, e := range filtered {
		if issues := validator.Struct(e); issues != nil {
			s.log.Error().Str("exam_id", e.ID).Interface("issues", issues).Msg("exam record failed outbound schema")
			return nil, &SchemaError{Issues: issues}
		}
	}

	return &model.ExamsResponse{
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
		Exams:     filtered,
	}, nil
}

// snapshotBase copies the base and applies this request's deltas.
func (s *ExamService) snapshotBase() []model.ExamDto {
	base := s.store.Base()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := base[:0:0]
	for _, e := range base {
		if e.Status == model.ExamStatusInProgress {
			if s.rng.Float64() < ExamAdvanceProbability {
				e.CompletedCount = minInt(e.TotalStudents, e.CompletedCount+s.rng.Intn(ExamCompletedStepBound))
				drift := s.rng.Float64()*2*ExamScoreDrift - ExamScoreDrift
				e.AvgScore = clampScore(int(math.Round(float64(e.AvgScore) + drift)))
			}
			if e.CompletedCount >= e.TotalStudents {
				e.Status = model.ExamStatusCompleted
			}
		}
		if e.Status == model.ExamStatusScheduled && !e.StartsAt.After(now) {
			e.Status = model.ExamStatusInProgress
		}
		out = append(out, e)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
