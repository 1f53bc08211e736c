package model

// StudentStatus enumerates the progress states of a student sitting an exam.
// The string values are part of the wire contract and must not change.
type StudentStatus string

const (
	StatusNotStarted StudentStatus = "Not Started"
	StatusInProgress StudentStatus = "In Progress"
	StatusCompleted  StudentStatus = "Completed"
)

// DeriveStudentStatus computes the status implied by the completed/total
// counters. Status is never stored independently of these counters.
func DeriveStudentStatus(completed, totalQuestions int) StudentStatus {
	switch {
	case completed <= 0:
		return StatusNotStarted
	case completed >= totalQuestions:
		return StatusCompleted
	default:
		return StatusInProgress
	}
}

// StudentRecord is one student's row in the live roster. The same shape is
// served by the students list endpoint.
type StudentRecord struct {
	ID             string        `json:"id" validate:"required"`
	Name           string        `json:"name" validate:"required"`
	Completed      int           `json:"completed" validate:"min=0"`
	TotalQuestions int           `json:"totalQuestions" validate:"required,min=1"`
	AvgTimeSec     float64       `json:"avgTimeSec" validate:"min=0"`
	Score          int           `json:"score" validate:"min=0,max=100"`
	Status         StudentStatus `json:"status" validate:"oneof='Not Started' 'In Progress' Completed"`
}

// ExamInfo is the metadata of the exam currently being simulated.
type ExamInfo struct {
	Title          string `json:"title" validate:"required"`
	Subject        string `json:"subject" validate:"required"`
	DateISO        string `json:"dateISO" validate:"required"`
	Time24h        string `json:"time24h" validate:"required"`
	TotalStudents  int    `json:"totalStudents" validate:"min=0"`
	TotalQuestions int    `json:"totalQuestions" validate:"required,min=1"`
}

// LiveSnapshot is the aggregate view over the roster at a single point in
// time. It is recomputed wholesale on every tick, never patched.
type LiveSnapshot struct {
	Ts           int64                 `json:"ts" validate:"required"`
	AvgScore     float64               `json:"avgScore" validate:"min=0,max=100"`
	PctCompleted float64               `json:"pctCompleted" validate:"min=0,max=100"`
	StatusDist   map[StudentStatus]int `json:"statusDist" validate:"required"`
}

// LiveState is the full payload served by the live endpoint.
type LiveState struct {
	Exam     ExamInfo        `json:"exam" validate:"required"`
	Students []StudentRecord `json:"students" validate:"required,dive"`
	Snapshot LiveSnapshot    `json:"snapshot" validate:"required"`
}

// StudentsResponse is the students list endpoint payload.
type StudentsResponse struct {
	UpdatedAt string          `json:"updatedAt"`
	Students  []StudentRecord `json:"students"`
}
