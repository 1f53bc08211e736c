package simulation

import (
	"math"
	"time"

	"github.com/merolabs/meroview-backend/internal/model"
)

// ComputeSnapshot derives the aggregate view over a roster. It is the only
// place aggregate math lives, so the tick engine and every consumer agree
// on totals. Pure: no state, no side effects.
func ComputeSnapshot(students []model.StudentRecord) model.LiveSnapshot {
	// Denominator floors at 1 so an empty roster yields zeros, not NaN.
	denom := float64(len(students))
	if denom < 1 {
		denom = 1
	}

	dist := map[model.StudentStatus]int{
		model.StatusNotStarted: 0,
		model.StatusInProgress: 0,
		model.StatusCompleted:  0,
	}

	scoreSum := 0
	completedCount := 0
	for _, s := range students {
		scoreSum += s.Score
		dist[s.Status]++
		if s.Status == model.StatusCompleted {
			completedCount++
		}
	}

	return model.LiveSnapshot{
		Ts:           time.Now().UnixMilli(),
		AvgScore:     round1(float64(scoreSum) / denom),
		PctCompleted: round1(100 * float64(completedCount) / denom),
		StatusDist:   dist,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
