package model

import (
	"math"

	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

// Scorer computes the penalty of a candidate schedule. It holds no state between calls and is safe for concurrent use
type Scorer interface {
	// Score decodes a candidate vector and scores it; only a vector of the wrong length fails
	Score(vector []float64) (float64, error)

	ScoreGrid(grid Grid) float64

	// Breakdown counts the violations of every rule along with the resulting penalty
	Breakdown(grid Grid) Breakdown
}

type Breakdown struct {
	BreakViolations        int     `json:"breakViolations"`
	UnknownInstructors     int     `json:"unknownInstructors"`
	AvailabilityMismatches int     `json:"availabilityMismatches"`
	Overloads              int     `json:"overloads"`
	Repetitions            int     `json:"repetitions"`
	Penalty                float64 `json:"penalty"`
}

func NewScorer(roster Roster, opts ...Option) Scorer {
	return newStandardScorer(roster, newOptions(opts...))
}

type standardScorer struct {
	roster         Roster
	penalties      Penalties
	maxDailyLoad   int
	dailyLoadReset bool
}

func newStandardScorer(roster Roster, options options) *standardScorer {
	return &standardScorer{
		roster:         roster,
		penalties:      options.penalties,
		maxDailyLoad:   options.maxDailyLoad,
		dailyLoadReset: options.dailyLoadReset,
	}
}

func (scorer *standardScorer) Score(vector []float64) (float64, error) {
	grid, err := DecodeVector(vector)
	if err != nil {
		return 0, err
	}
	return scorer.ScoreGrid(grid), nil
}

func (scorer *standardScorer) ScoreGrid(grid Grid) float64 {
	return scorer.Breakdown(grid).Penalty
}

func (scorer *standardScorer) Breakdown(grid Grid) Breakdown {
	var breakdown Breakdown
	load := newLoadCounter(scorer.dailyLoadReset)
	subjects := make(subjectCounter)

	// Period-major traversal; the load counter is shared by every cell of the pass
	for period := range TotalPeriods {
		for day := range TotalDays {
			var violations Breakdown
			violations, load = scorer.scoreCell(period, day, grid[period][day], load, subjects)
			breakdown.add(violations)
		}
	}

	breakdown.Penalty = float64(breakdown.BreakViolations)*scorer.penalties.Break +
		float64(breakdown.UnknownInstructors)*scorer.penalties.UnknownInstructor +
		float64(breakdown.AvailabilityMismatches)*scorer.penalties.Availability +
		float64(breakdown.Overloads)*scorer.penalties.Overload +
		float64(breakdown.Repetitions)*scorer.penalties.Repetition
	return breakdown
}

func (scorer *standardScorer) scoreCell(period, day int, cell Cell, load loadCounter, subjects subjectCounter) (Breakdown, loadCounter) {
	var violations Breakdown
	id, assigned := cell.Instructor()

	if IsBreak(period) {
		if assigned {
			violations.BreakViolations++
		}
		return violations, load
	}

	instructor, known := scorer.roster.Instructor(id)
	if !assigned || !known {
		violations.UnknownInstructors++
		return violations, load
	}

	if !instructor.Availability.Allows(period) {
		violations.AvailabilityMismatches++
	}

	if load.record(id, day) > scorer.maxDailyLoad {
		violations.Overloads++
	}

	if subjects.record(day, instructor.Subject) > 1 {
		violations.Repetitions++
	}

	return violations, load
}

func (breakdown *Breakdown) add(other Breakdown) {
	breakdown.BreakViolations += other.BreakViolations
	breakdown.UnknownInstructors += other.UnknownInstructors
	breakdown.AvailabilityMismatches += other.AvailabilityMismatches
	breakdown.Overloads += other.Overloads
	breakdown.Repetitions += other.Repetitions
}

// loadCounter counts assignments per instructor. Unless reset daily it accumulates over the whole week
type loadCounter struct {
	counts     map[[2]int]int
	resetDaily bool
}

func newLoadCounter(resetDaily bool) loadCounter {
	return loadCounter{counts: make(map[[2]int]int), resetDaily: resetDaily}
}

func (counter loadCounter) record(instructor, day int) int {
	key := [2]int{instructor, -1}
	if counter.resetDaily {
		key[1] = day
	}
	counter.counts[key]++
	return counter.counts[key]
}

type subjectDay struct {
	day     int
	subject string
}

type subjectCounter map[subjectDay]int

func (counter subjectCounter) record(day int, subject string) int {
	key := subjectDay{day, subject}
	counter[key]++
	return counter[key]
}

// objective adapts a scorer to the swarm; a vector of the wrong length is worse than any schedule
func objective(scorer Scorer) swarm.Objective {
	return swarm.ObjectiveFunc(func(candidate []float64) float64 {
		penalty, err := scorer.Score(candidate)
		if err != nil {
			return math.Inf(1)
		}
		return penalty
	})
}
