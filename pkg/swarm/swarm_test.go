package swarm

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

var sphere = ObjectiveFunc(func(candidate []float64) float64 {
	sum := 0.0
	for _, value := range candidate {
		sum += value * value
	}
	return sum
})

func smallConfig() Config {
	config := DefaultConfig()
	config.SwarmSize = 20
	config.MaxIterations = 60
	config.Seed = 42
	return config
}

func TestSearchInvalidConfiguration(t *testing.T) {
	bounds := UniformBounds(3, -5, 5)

	t.Run("Zero swarm size", func(t *testing.T) {
		config := smallConfig()
		config.SwarmSize = 0
		_, err := Search(context.Background(), bounds, sphere, config)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})

	t.Run("Zero iterations", func(t *testing.T) {
		config := smallConfig()
		config.MaxIterations = 0
		_, err := Search(context.Background(), bounds, sphere, config)
		assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	})

	t.Run("Negative coefficients", func(t *testing.T) {
		config := smallConfig()
		config.Social = -1
		_, err := Search(context.Background(), bounds, sphere, config)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Negative inertia is accepted", func(t *testing.T) {
		config := smallConfig()
		config.Inertia = -0.4
		result, err := Search(context.Background(), bounds, sphere, config)
		assert.Nil(t, err)
		assert.Equal(t, config.MaxIterations, result.Iterations)
		for d, value := range result.Best {
			assert.GreaterOrEqual(t, value, bounds.Lower[d])
			assert.LessOrEqual(t, value, bounds.Upper[d])
		}
	})

	t.Run("Inverted bounds", func(t *testing.T) {
		_, err := Search(context.Background(), Bounds{Lower: []float64{1}, Upper: []float64{0}}, sphere, smallConfig())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Mismatched bounds", func(t *testing.T) {
		_, err := Search(context.Background(), Bounds{Lower: []float64{0, 0}, Upper: []float64{1}}, sphere, smallConfig())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Empty bounds", func(t *testing.T) {
		_, err := Search(context.Background(), Bounds{}, sphere, smallConfig())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("Nil objective", func(t *testing.T) {
		_, err := Search(context.Background(), bounds, nil, smallConfig())
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}

func TestSearchConverges(t *testing.T) {
	//** Arrange
	bounds := UniformBounds(4, -10, 10)

	//** Act
	result, err := Search(context.Background(), bounds, sphere, smallConfig())

	//** Assert
	assert.Nil(t, err)
	assert.Len(t, result.Best, 4)
	assert.Less(t, result.Penalty, 1.0)
	assert.Equal(t, sphere(result.Best), result.Penalty)
	assert.Equal(t, 60, result.Iterations)
}

func TestSearchHistory(t *testing.T) {
	config := smallConfig()
	config.InfeasibleThreshold = 10
	result, err := Search(context.Background(), UniformBounds(3, -10, 10), sphere, config)
	assert.Nil(t, err)

	t.Run("One record per evaluation", func(t *testing.T) {
		assert.Len(t, result.History, config.SwarmSize*(config.MaxIterations+1))
		for i, record := range result.History {
			assert.Equal(t, i, record.Evaluation)
			assert.Equal(t, i/config.SwarmSize, record.Iteration)
			assert.Equal(t, i%config.SwarmSize, record.Particle)
			assert.Equal(t, record.Penalty > config.InfeasibleThreshold, record.Infeasible)
		}
	})

	t.Run("Best so far is non-increasing", func(t *testing.T) {
		for i := 1; i < len(result.History); i++ {
			assert.LessOrEqual(t, result.History[i].Best, result.History[i-1].Best)
		}
		assert.Equal(t, result.Penalty, result.History[len(result.History)-1].Best)
	})
}

func TestSearchRespectsBounds(t *testing.T) {
	bounds := Bounds{
		Lower: []float64{-1, 2, -1, 0},
		Upper: []float64{1, 3, -1, 0.5},
	}

	var outside atomic.Int64
	objective := ObjectiveFunc(func(candidate []float64) float64 {
		for d, value := range candidate {
			if value < bounds.Lower[d] || value > bounds.Upper[d] {
				outside.Add(1)
			}
		}
		return sphere(candidate)
	})

	result, err := Search(context.Background(), bounds, objective, smallConfig())

	assert.Nil(t, err)
	assert.Zero(t, outside.Load())
	assert.Equal(t, -1.0, result.Best[2]) // Pinned dimension
}

func TestSearchDeterministic(t *testing.T) {
	bounds := UniformBounds(5, -3, 3)
	config := smallConfig()
	config.Workers = 4

	first, err := Search(context.Background(), bounds, sphere, config)
	assert.Nil(t, err)
	second, err := Search(context.Background(), bounds, sphere, config)
	assert.Nil(t, err)

	g := gomega.NewWithT(t)
	g.Expect(second.Best).To(gomega.Equal(first.Best))
	g.Expect(second.History).To(gomega.Equal(first.History))
}

func TestSearchCancellation(t *testing.T) {
	t.Run("Cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Search(ctx, UniformBounds(2, 0, 1), sphere, smallConfig())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Cancelled while running", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var evaluations atomic.Int64
		objective := ObjectiveFunc(func(candidate []float64) float64 {
			if evaluations.Add(1) == 100 {
				cancel()
			}
			return sphere(candidate)
		})

		config := smallConfig()
		config.MaxIterations = 1000
		result, err := Search(ctx, UniformBounds(2, -1, 1), objective, config)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, result.Iterations, config.MaxIterations)
		assert.NotNil(t, result.Best)
		assert.False(t, math.IsInf(result.Penalty, 1))
	})
}

func TestSearchStall(t *testing.T) {
	config := smallConfig()
	config.MaxIterations = 500
	config.StallIterations = 5
	constant := ObjectiveFunc(func([]float64) float64 { return 7 })

	result, err := Search(context.Background(), UniformBounds(2, 0, 1), constant, config)

	assert.Nil(t, err)
	assert.Equal(t, 5, result.Iterations)
	assert.Equal(t, 7.0, result.Penalty)
}
