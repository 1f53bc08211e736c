package model

import "time"

// ExamStatus enumerates the possible states of a listed exam.
type ExamStatus string

const (
	ExamStatusScheduled  ExamStatus = "Scheduled"
	ExamStatusInProgress ExamStatus = "In Progress"
	ExamStatusCompleted  ExamStatus = "Completed"
)

// ValidExamStatus reports whether s is one of the known exam states.
func ValidExamStatus(s string) bool {
	switch ExamStatus(s) {
	case ExamStatusScheduled, ExamStatusInProgress, ExamStatusCompleted:
		return true
	}
	return false
}

// ValidStudentStatus reports whether s is a known student progress state.
func ValidStudentStatus(s string) bool {
	switch StudentStatus(s) {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ExamDto is one exam row in the exams list.
type ExamDto struct {
	ID             string     `json:"id" validate:"required"`
	Title          string     `json:"title" validate:"required"`
	Subject        string     `json:"subject" validate:"required"`
	StartsAt       time.Time  `json:"startsAt" validate:"required"`
	DurationMin    int        `json:"durationMin" validate:"required,min=1"`
	TotalStudents  int        `json:"totalStudents" validate:"min=0"`
	TotalQuestions int        `json:"totalQuestions" validate:"required,min=1"`
	CompletedCount int        `json:"completedCount" validate:"min=0"`
	AvgScore       int        `json:"avgScore" validate:"min=0,max=100"`
	Status         ExamStatus `json:"status" validate:"oneof=Scheduled 'In Progress' Completed"`
}

// ExamsResponse is the exams list endpoint payload.
type ExamsResponse struct {
	UpdatedAt string    `json:"updatedAt"`
	Exams     []ExamDto `json:"exams"`
}

// ListQuery holds the validated filter parameters shared by the exams and
// students list endpoints.
type ListQuery struct {
	Q      string
	Status string // empty means no status filter
}
