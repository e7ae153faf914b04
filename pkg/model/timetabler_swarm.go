package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

type swarmTimetabler struct {
	config  swarm.Config
	options options
}

func NewSwarmTimetabler(config swarm.Config, opts ...Option) Timetabler {
	return &swarmTimetabler{
		config:  config,
		options: newOptions(opts...),
	}
}

func (timetabler *swarmTimetabler) Build(ctx context.Context, roster Roster, cohort CohortKind) (Timetable, error) {
	//** Encode search space
	searchBounds, err := bounds(roster, cohort, timetabler.options)
	if err != nil {
		return Timetable{}, err
	}

	//** Initialize dependencies
	scorer := newStandardScorer(roster, timetabler.options)
	runId := uuid.New()
	logger := timetabler.options.logger.With("run", runId.String(), "cohort", roster.Cohort(cohort).Name)

	//** Search
	start := time.Now()
	result, err := swarm.Search(ctx, searchBounds, objective(scorer), timetabler.config, swarm.WithLogger(logger))
	if result.Best == nil {
		return Timetable{}, err
	}

	//** Decode best candidate
	grid, decodeErr := DecodeVector(result.Best)
	if decodeErr != nil {
		return Timetable{}, decodeErr
	}

	logger.Info("timetable built",
		"penalty", result.Penalty,
		"iterations", result.Iterations,
		"evaluations", len(result.History),
		"elapsed", time.Since(start),
	)

	return Timetable{
		RunId:      runId,
		Cohort:     cohort,
		Grid:       grid,
		Penalty:    result.Penalty,
		Iterations: result.Iterations,
		History:    result.History,
	}, err
}

func (timetabler *swarmTimetabler) Verify(timetable Timetable, roster Roster) bool {
	return newStandardScorer(roster, timetabler.options).ScoreGrid(timetable.Grid) == 0
}
