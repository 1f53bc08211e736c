package simulation

import (
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/merolabs/meroview-backend/internal/model"
)

// Tick parameters. Kept as named constants so tests can assert against
// them and tuning never hides inside expressions.
const (
	RosterTotalQuestions = 40

	// Initial roster draw: completed ∈ [0, InitialCompletedBound),
	// avgTimeSec ∈ [InitialAvgTimeMin, InitialAvgTimeMin+InitialAvgTimeSpread).
	InitialCompletedBound = 5
	InitialAvgTimeMin     = 45.0
	InitialAvgTimeSpread  = 30.0

	// Per tick, between TickUpdatesMin and TickUpdatesMax students are
	// drawn with replacement.
	TickUpdatesMin = 2
	TickUpdatesMax = 4

	// A drawn, non-completed student answers one more question with this
	// probability.
	ProgressProbability = 0.75

	// avgTimeSec drifts by a uniform value in [-AvgTimeJitter, +AvgTimeJitter],
	// clamped to [AvgTimeFloor, AvgTimeCeil].
	AvgTimeJitter = 1.25
	AvgTimeFloor  = 20.0
	AvgTimeCeil   = 120.0

	// score = round(100 * completed/total + uniform[-ScoreNoise, +ScoreNoise]),
	// clamped to [0, 100].
	ScoreNoise = 3.0
)

// rosterNames is the fixed roster created at process start.
var rosterNames = []string{
	"Alice Nguyen", "Bob Johansson", "Carla Mendes", "David Rossi", "Elena García",
	"Farid Khan", "Grace Lee", "Hassan Ali", "Ivy Müller", "Jonas Schmidt",
}

// Engine owns the single live-exam simulation state. All reads and ticks go
// through the mutex; callers only ever receive deep copies, so nothing
// outside the engine can hold a reference into its roster.
type Engine struct {
	mu    sync.Mutex
	rng   *rand.Rand
	state model.LiveState
}

// NewEngine builds the initial roster and snapshot. Pass a seeded rng for
// deterministic behavior in tests; nil falls back to a time-based seed.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{rng: rng}
	e.state = e.initialState()
	return e
}

func (e *Engine) initialState() model.LiveState {
	now := time.Now()

	students := make([]model.StudentRecord, len(rosterNames))
	for i, name := range rosterNames {
		completed := e.rng.Intn(InitialCompletedBound)
		students[i] = model.StudentRecord{
			ID:             strconv.Itoa(i + 1),
			Name:           name,
			Completed:      completed,
			TotalQuestions: RosterTotalQuestions,
			AvgTimeSec:     InitialAvgTimeMin + e.rng.Float64()*InitialAvgTimeSpread,
			Score:          0,
			Status:         model.DeriveStudentStatus(completed, RosterTotalQuestions),
		}
	}

	return model.LiveState{
		Exam: model.ExamInfo{
			Title:          "Midterm Assessment",
			Subject:        "Mathematics I",
			DateISO:        now.Format("2006-01-02"),
			Time24h:        now.Format("15:04"),
			TotalStudents:  len(students),
			TotalQuestions: RosterTotalQuestions,
		},
		Students: students,
		Snapshot: ComputeSnapshot(students),
	}
}

// AdvanceTick mutates 2–4 randomly drawn students (with replacement),
// recomputes the snapshot wholesale, and returns a deep copy of the new
// state. Completed students are never touched again.
func (e *Engine) AdvanceTick() model.LiveState {
	e.mu.Lock()
	defer e.mu.Unlock()

	updates := TickUpdatesMin + e.rng.Intn(TickUpdatesMax-TickUpdatesMin+1)
	for k := 0; k < updates; k++ {
		s := &e.state.Students[e.rng.Intn(len(e.state.Students))]
		if s.Status == model.StatusCompleted {
			continue
		}

		if e.rng.Float64() < ProgressProbability {
			s.Completed = clampInt(s.Completed+1, 0, s.TotalQuestions)
		}

		s.AvgTimeSec = clampFloat(
			s.AvgTimeSec+(e.rng.Float64()*2-1)*AvgTimeJitter,
			AvgTimeFloor, AvgTimeCeil,
		)

		progress := float64(s.Completed) / float64(s.TotalQuestions)
		noise := (e.rng.Float64()*2 - 1) * ScoreNoise
		s.Score = clampInt(int(math.Round(progress*100+noise)), 0, 100)

		s.Status = model.DeriveStudentStatus(s.Completed, s.TotalQuestions)
	}

	e.state.Snapshot = ComputeSnapshot(e.state.Students)
	return copyState(e.state)
}

// State returns a deep copy of the current state without advancing it.
func (e *Engine) State() model.LiveState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyState(e.state)
}

func copyState(s model.LiveState) model.LiveState {
	out := s
	out.Students = make([]model.StudentRecord, len(s.Students))
	copy(out.Students, s.Students)
	out.Snapshot.StatusDist = make(map[model.StudentStatus]int, len(s.Snapshot.StatusDist))
	for k, v := range s.Snapshot.StatusDist {
		out.Snapshot.StatusDist[k] = v
	}
	return out
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func clampFloat(n, lo, hi float64) float64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
