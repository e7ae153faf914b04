package model

import (
	"context"

	"github.com/google/uuid"
	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

type Timetable struct {
	RunId      uuid.UUID
	Cohort     CohortKind
	Grid       Grid
	Penalty    float64
	Iterations int // Completed search iterations, not counting the initial evaluation
	History    swarm.History
}

type Timetabler interface {
	// Build searches a weekly schedule for the cohort. On cancellation the best timetable found so far is returned along with the context's error
	Build(ctx context.Context, roster Roster, cohort CohortKind) (Timetable, error)

	// Verify checks that the timetable violates no constraint
	Verify(timetable Timetable, roster Roster) bool
}
