package model

import (
	"fmt"

	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

// Bounds builds the per-cell search interval for a cohort's schedule.
// Teaching cells range over the instructor ids; break cells are pinned to the empty sentinel unless WithFreeBreakCells is given
func Bounds(roster Roster, cohort CohortKind, opts ...Option) (swarm.Bounds, error) {
	return bounds(roster, cohort, newOptions(opts...))
}

func bounds(roster Roster, cohort CohortKind, options options) (swarm.Bounds, error) {
	if roster.Total() == 0 {
		return swarm.Bounds{}, fmt.Errorf("%w: roster has no instructors", swarm.ErrInvalidConfiguration)
	}

	from, to := 0, roster.Total()
	if options.cohortScoped {
		from, to = roster.Range(cohort)
		if from == to {
			return swarm.Bounds{}, fmt.Errorf("%w: cohort \"%v\" has no instructors to schedule", swarm.ErrInvalidConfiguration, roster.Cohort(cohort).Name)
		}
	}

	result := swarm.UniformBounds(TotalCells, float64(from), float64(to-1))
	if options.freeBreakCells {
		return result, nil
	}

	for i := range TotalCells {
		if IsBreak(i / TotalDays) {
			result.Lower[i], result.Upper[i] = emptySentinel, emptySentinel
		}
	}
	return result, nil
}
