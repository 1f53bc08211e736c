package store

import (
	"time"

	"github.com/merolabs/meroview-backend/internal/model"
)

// ExamStore holds the fixed exams base dataset. Reads hand out copies; the
// base itself is never mutated after construction, which is what keeps the
// exams endpoint's read-time deltas from compounding across requests.
type ExamStore struct {
	base []model.ExamDto
}

// NewExamStore seeds the default dataset with startsAt offsets anchored to
// the process start time.
func NewExamStore() *ExamStore {
	return NewExamStoreWith(defaultExams(time.Now()))
}

// NewExamStoreWith builds a store around a caller-supplied base. Used by
// tests to pin startsAt values.
func NewExamStoreWith(base []model.ExamDto) *ExamStore {
	return &ExamStore{base: base}
}

// Base returns a copy of the base dataset.
func (s *ExamStore) Base() []model.ExamDto {
	out := make([]model.ExamDto, len(s.base))
	copy(out, s.base)
	return out
}

func defaultExams(now time.Time) []model.ExamDto {
	return []model.ExamDto{
		{
			ID:             "e1",
			Title:          "Math Final 2025",
			Subject:        "Mathematics",
			StartsAt:       now.Add(time.Hour),
			DurationMin:    90,
			TotalStudents:  42,
			TotalQuestions: 40,
			CompletedCount: 0,
			AvgScore:       0,
			Status:         model.ExamStatusScheduled,
		},
		{
			ID:             "e2",
			Title:          "Physics Midterm",
			Subject:        "Physics",
			StartsAt:       now.Add(-30 * time.Minute),
			DurationMin:    60,
			TotalStudents:  30,
			TotalQuestions: 30,
			CompletedCount: 12,
			AvgScore:       58,
			Status:         model.ExamStatusInProgress,
		},
		{
			ID:             "e3",
			Title:          "History Quiz",
			Subject:        "History",
			StartsAt:       now.Add(-3 * time.Hour),
			DurationMin:    30,
			TotalStudents:  18,
			TotalQuestions: 15,
			CompletedCount: 18,
			AvgScore:       76,
			Status:         model.ExamStatusCompleted,
		},
	}
}
