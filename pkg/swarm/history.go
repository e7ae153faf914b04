package swarm

import (
	"math"

	"github.com/samber/lo"
)

// Record describes a single objective evaluation
type Record struct {
	Evaluation int     `csv:"evaluation" json:"evaluation"`
	Iteration  int     `csv:"iteration" json:"iteration"` // 0 stands for the initial swarm
	Particle   int     `csv:"particle" json:"particle"`
	Penalty    float64 `csv:"penalty" json:"penalty"`
	Infeasible bool    `csv:"infeasible" json:"infeasible"`
	Best       float64 `csv:"best" json:"best"`       // Lowest penalty observed up to this evaluation
	Average    float64 `csv:"average" json:"average"` // Mean of the trailing window of penalties
}

// History is append-only and ordered by evaluation
type History []Record

type Summary struct {
	Evaluations int
	Infeasible  int
	Best        float64
	Last        float64
	Mean        float64
}

func (history History) Summary() Summary {
	if len(history) == 0 {
		return Summary{}
	}

	penalties := lo.Map(history, func(record Record, _ int) float64 { return record.Penalty })
	return Summary{
		Evaluations: len(history),
		Infeasible:  lo.CountBy(history, func(record Record) bool { return record.Infeasible }),
		Best:        history[len(history)-1].Best,
		Last:        history[len(history)-1].Penalty,
		Mean:        lo.Sum(penalties) / float64(len(penalties)),
	}
}

// Tracker folds penalties into a History. It replaces run-level state hidden inside the objective function
type Tracker struct {
	threshold float64
	window    int
	recent    []float64 // Ring buffer holding the trailing window of penalties
	best      float64
	history   History
}

func NewTracker(infeasibleThreshold float64, averageWindow int) *Tracker {
	return &Tracker{
		threshold: infeasibleThreshold,
		window:    max(averageWindow, 1),
		recent:    make([]float64, 0, max(averageWindow, 1)),
		best:      math.Inf(1),
	}
}

func (tracker *Tracker) Observe(iteration, particle int, penalty float64) Record {
	evaluation := len(tracker.history)

	if len(tracker.recent) < tracker.window {
		tracker.recent = append(tracker.recent, penalty)
	} else {
		tracker.recent[evaluation%tracker.window] = penalty
	}

	if penalty < tracker.best {
		tracker.best = penalty
	}

	record := Record{
		Evaluation: evaluation,
		Iteration:  iteration,
		Particle:   particle,
		Penalty:    penalty,
		Infeasible: penalty > tracker.threshold,
		Best:       tracker.best,
		Average:    lo.Sum(tracker.recent) / float64(len(tracker.recent)),
	}
	tracker.history = append(tracker.history, record)
	return record
}

func (tracker *Tracker) Best() float64 {
	return tracker.best
}

func (tracker *Tracker) History() History {
	return tracker.history
}
