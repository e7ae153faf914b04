package model

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/limaJavier/timetabling-pso/pkg/swarm"
	"github.com/onsi/gomega"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func mathPhysicsRoster() Roster {
	return Roster{
		Primary: Cohort{
			Name: "bct",
			Instructors: []Instructor{
				{Name: "Alice", Subject: "Math", Availability: FullTime},
				{Name: "Bob", Subject: "Physics", Availability: PartTime},
			},
		},
		Secondary: Cohort{Name: "bei"},
	}
}

func testConfig() swarm.Config {
	config := swarm.DefaultConfig()
	config.SwarmSize = 10
	config.MaxIterations = 20
	config.Seed = 7
	return config
}

func TestBuildMathPhysics(t *testing.T) {
	//** Arrange
	roster := mathPhysicsRoster()
	scorer := NewScorer(roster)

	var allEmpty Grid
	emptyPenalty := scorer.ScoreGrid(allEmpty)

	t.Run("Hand-constructed assignments add no penalty", func(t *testing.T) {
		var grid Grid
		grid[0][0] = Assigned(0) // Math, full-time, morning
		grid[4][0] = Assigned(1) // Physics, part-time, afternoon

		breakdown := scorer.Breakdown(grid)

		assert.Zero(t, breakdown.BreakViolations)
		assert.Zero(t, breakdown.AvailabilityMismatches)
		assert.Zero(t, breakdown.Overloads)
		assert.Zero(t, breakdown.Repetitions)
		// Only the 23 teaching periods left without instructor are penalised
		assert.Equal(t, 23, breakdown.UnknownInstructors)
		assert.Equal(t, emptyPenalty-200, breakdown.Penalty)
	})

	t.Run("Search beats the empty schedule", func(t *testing.T) {
		//** Arrange
		config := testConfig()
		config.SwarmSize = 30
		config.MaxIterations = 60

		//** Act
		timetabler := NewSwarmTimetabler(config)
		timetable, err := timetabler.Build(context.Background(), roster, Primary)

		//** Assert
		assert.Nil(t, err)
		assert.Equal(t, 2500.0, emptyPenalty)
		assert.LessOrEqual(t, timetable.Penalty, emptyPenalty)
		assert.Equal(t, scorer.ScoreGrid(timetable.Grid), timetable.Penalty)
		assert.NotEqual(t, uuid.Nil, timetable.RunId)
		assert.Equal(t, 60, timetable.Iterations)
		assert.Len(t, timetable.History, 30*61)

		initial := lo.Filter(timetable.History, func(record swarm.Record, _ int) bool { return record.Iteration == 0 })
		assert.LessOrEqual(t, timetable.Penalty, lo.MinBy(initial, func(a, b swarm.Record) bool { return a.Penalty < b.Penalty }).Penalty)
		for period := range TotalPeriods {
			for day := range TotalDays {
				if IsBreak(period) {
					assert.True(t, timetable.Grid[period][day].IsEmpty())
				}
			}
		}
	})
}

func TestBuildFeasibleRoster(t *testing.T) {
	roster := feasibleRoster()
	timetabler := NewSwarmTimetabler(testConfig())

	timetable, err := timetabler.Build(context.Background(), roster, Secondary)

	assert.Nil(t, err)
	assert.Equal(t, Secondary, timetable.Cohort)
	assert.Equal(t, timetable.Penalty == 0, timetabler.Verify(timetable, roster))
	assert.True(t, timetabler.Verify(Timetable{Grid: feasibleGrid()}, roster))
}

func TestBuildInvalidConfiguration(t *testing.T) {
	t.Run("Zero swarm size", func(t *testing.T) {
		config := testConfig()
		config.SwarmSize = 0
		_, err := NewSwarmTimetabler(config).Build(context.Background(), mathPhysicsRoster(), Primary)
		assert.ErrorIs(t, err, swarm.ErrInvalidConfiguration)
	})

	t.Run("Zero iterations", func(t *testing.T) {
		config := testConfig()
		config.MaxIterations = 0
		_, err := NewSwarmTimetabler(config).Build(context.Background(), mathPhysicsRoster(), Primary)
		assert.ErrorIs(t, err, swarm.ErrInvalidConfiguration)
	})

	t.Run("Empty roster", func(t *testing.T) {
		_, err := NewSwarmTimetabler(testConfig()).Build(context.Background(), Roster{}, Primary)
		assert.ErrorIs(t, err, swarm.ErrInvalidConfiguration)
	})

	t.Run("Scoped to an empty cohort", func(t *testing.T) {
		_, err := NewSwarmTimetabler(testConfig(), WithCohortScopedBounds()).Build(context.Background(), mathPhysicsRoster(), Secondary)
		assert.ErrorIs(t, err, swarm.ErrInvalidConfiguration)
	})
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSwarmTimetabler(testConfig()).Build(ctx, mathPhysicsRoster(), Primary)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBounds(t *testing.T) {
	roster := feasibleRoster()

	t.Run("Break cells pinned empty", func(t *testing.T) {
		bounds, err := Bounds(roster, Primary)
		assert.Nil(t, err)

		for i := range TotalCells {
			if IsBreak(i / TotalDays) {
				assert.Equal(t, [2]float64{-1, -1}, [2]float64{bounds.Lower[i], bounds.Upper[i]})
			} else {
				assert.Equal(t, [2]float64{0, 12}, [2]float64{bounds.Lower[i], bounds.Upper[i]})
			}
		}
	})

	t.Run("Free break cells", func(t *testing.T) {
		bounds, err := Bounds(roster, Primary, WithFreeBreakCells())
		assert.Nil(t, err)

		g := gomega.NewWithT(t)
		g.Expect(bounds.Lower).To(gomega.HaveEach(0.0))
		g.Expect(bounds.Upper).To(gomega.HaveEach(12.0))
	})

	t.Run("Cohort scoped", func(t *testing.T) {
		bounds, err := Bounds(roster, Secondary, WithCohortScopedBounds(), WithFreeBreakCells())
		assert.Nil(t, err)

		g := gomega.NewWithT(t)
		g.Expect(bounds.Lower).To(gomega.HaveEach(5.0))
		g.Expect(bounds.Upper).To(gomega.HaveEach(12.0))
	})
}
