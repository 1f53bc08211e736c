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

// Students list read-time delta parameters.
const (
	// An in-progress student answers one more question on a given read
	// with this probability.
	StudentAdvanceProbability = 0.4
	// score drifts by a uniform value in [StudentScoreDriftMin, StudentScoreDriftMax).
	StudentScoreDriftMin = -2.0
	StudentScoreDriftMax = 3.0
	// avgTimeSec drifts by a uniform value in [StudentTimeDriftMin, StudentTimeDriftMax),
	// floored at StudentTimeFloor.
	StudentTimeDriftMin = -1.5
	StudentTimeDriftMax = 1.2
	StudentTimeFloor    = 8.0
)

// StudentService serves the students list with per-request deltas. Same
// non-compounding discipline as ExamService: the base dataset is read-only
// and every request starts from it.
type StudentService struct {
	store *store.StudentStore
	log   zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewStudentService creates a StudentService. A nil rng selects a
// time-seeded source.
func NewStudentService(st *store.StudentStore, rng *rand.Rand, log zerolog.Logger) *StudentService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StudentService{
		store: st,
		log:   log.With().Str("component", "student_service").Logger(),
		rng:   rng,
		now:   time.Now,
	}
}

// List applies read-time deltas, the q name filter, the status filter, and
// validates every outgoing record. Filters are conjunctive.
func (s *StudentService) List(query model.ListQuery) (*model.StudentsResponse, error) {
	snap := s.snapshotBase()

	filtered := snap
	if query.Q != "" {
		qq := strings.ToLower(query.Q)
		filtered = filtered[:0]
		for _, r := range snap {
			if strings.Contains(strings.ToLower(r.Name), qq) {
				filtered = append(filtered, r)
			}
		}
	}
	if query.Status != "" {
		kept := filtered[:0]
		for _, r := range filtered {
			if r.Status == model.StudentStatus(query.Status) {
				kept = append(kept, r)
			}
		}
		filtered = kept
	}

	for _, r := range filtered {
		if issues := validator.Struct(r); issues != nil {
			s.log.Error().Str("student_id", r.ID).Interface("issues", issues).Msg("student record failed outbound schema")
			return nil, &SchemaError{Issues: issues}
		}
	}

	return &model.StudentsResponse{
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
		Students:  filtered,
	}, nil
}

func (s *StudentService) snapshotBase() []model.StudentRecord {
	base := s.store.Base()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := base[:0:0]
	for _, r := range base {
		if r.Status == model.StatusInProgress &&
			r.Completed < r.TotalQuestions &&
			s.rng.Float64() < StudentAdvanceProbability {
			r.Completed++
			r.Score = clampScore(int(math.Round(float64(r.Score) + s.uniform(StudentScoreDriftMin, StudentScoreDriftMax))))
			r.AvgTimeSec = math.Max(StudentTimeFloor, r.AvgTimeSec+s.uniform(StudentTimeDriftMin, StudentTimeDriftMax))
		}
		r.Status = model.DeriveStudentStatus(r.Completed, r.TotalQuestions)
		out = append(out, r)
	}
	return out
}

// uniform draws from [lo, hi). Caller holds s.mu.
func (s *StudentService) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
