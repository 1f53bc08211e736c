package store

import "github.com/merolabs/meroview-backend/internal/model"

// StudentStore holds the fixed students base dataset, independent of the
// live simulation roster. Same non-compounding discipline as ExamStore.
type StudentStore struct {
	base []model.StudentRecord
}

// NewStudentStore seeds the default dataset.
func NewStudentStore() *StudentStore {
	return NewStudentStoreWith(defaultStudents())
}

// NewStudentStoreWith builds a store around a caller-supplied base.
func NewStudentStoreWith(base []model.StudentRecord) *StudentStore {
	return &StudentStore{base: base}
}

// Base returns a copy of the base dataset.
func (s *StudentStore) Base() []model.StudentRecord {
	out := make([]model.StudentRecord, len(s.base))
	copy(out, s.base)
	return out
}

func defaultStudents() []model.StudentRecord {
	return []model.StudentRecord{
		{ID: "1", Name: "Alice Johnson", Completed: 12, TotalQuestions: 20, AvgTimeSec: 18.2, Score: 64, Status: model.StatusInProgress},
		{ID: "2", Name: "Ben Carter", Completed: 20, TotalQuestions: 20, AvgTimeSec: 15.1, Score: 88, Status: model.StatusCompleted},
		{ID: "3", Name: "Carla Diaz", Completed: 0, TotalQuestions: 20, AvgTimeSec: 0, Score: 0, Status: model.StatusNotStarted},
		{ID: "4", Name: "Deon Patel", Completed: 7, TotalQuestions: 20, AvgTimeSec: 22.5, Score: 41, Status: model.StatusInProgress},
		{ID: "5", Name: "Ella Zhang", Completed: 19, TotalQuestions: 20, AvgTimeSec: 16.9, Score: 82, Status: model.StatusInProgress},
	}
}
