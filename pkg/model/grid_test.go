package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/limaJavier/timetabling-pso/pkg/swarm"
	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func TestDecodeCell(t *testing.T) {
	scenarios := []struct {
		value    float64
		expected Cell
	}{
		{-1, Empty()},
		{-1.3, Empty()},
		{-1.9, Empty()},
		{-0.6, Assigned(0)},
		{-0.4, Assigned(0)},
		{0, Assigned(0)},
		{0.49, Assigned(0)},
		{0.5, Assigned(0)},
		{0.6, Assigned(0)},
		{3.7, Assigned(3)},
		{-2, Assigned(-2)},
		{-2.9, Assigned(-2)},
		{math.NaN(), Assigned(invalidInstructor)},
		{math.Inf(1), Assigned(invalidInstructor)},
		{math.Inf(-1), Assigned(invalidInstructor)},
		{1e20, Assigned(invalidInstructor)},
	}

	for _, scenario := range scenarios {
		assert.Equal(t, scenario.expected, DecodeCell(scenario.value), "value %v", scenario.value)
	}
}

func TestDecodeVector(t *testing.T) {
	t.Run("Period-major layout", func(t *testing.T) {
		vector := make([]float64, TotalCells)
		for i := range vector {
			vector[i] = float64(i)
		}

		grid, err := DecodeVector(vector)

		assert.Nil(t, err)
		assert.Equal(t, Assigned(0), grid[0][0])
		assert.Equal(t, Assigned(4), grid[0][4])
		assert.Equal(t, Assigned(5), grid[1][0])
		assert.Equal(t, Assigned(34), grid[6][4])
		assert.Equal(t, vector, grid.Vector())
	})

	t.Run("Wrong length", func(t *testing.T) {
		_, err := DecodeVector(make([]float64, 10))
		assert.ErrorIs(t, err, swarm.ErrInvalidConfiguration)
	})

	t.Run("Empty grid encodes the sentinel", func(t *testing.T) {
		var grid Grid
		g := gomega.NewWithT(t)
		g.Expect(grid.Vector()).To(gomega.HaveLen(TotalCells))
		g.Expect(grid.Vector()).To(gomega.HaveEach(gomega.Equal(-1.0)))
	})
}

func TestCellJson(t *testing.T) {
	cells := []Cell{Assigned(3), Empty(), Assigned(0)}

	bytes, err := json.Marshal(cells)
	assert.Nil(t, err)
	assert.Equal(t, "[3,null,0]", string(bytes))

	var decoded []Cell
	assert.Nil(t, json.Unmarshal(bytes, &decoded))
	assert.Equal(t, cells, decoded)
}

func TestBreakPeriods(t *testing.T) {
	breaks := []int{}
	for period := range TotalPeriods {
		if IsBreak(period) {
			breaks = append(breaks, period)
		}
	}
	assert.Equal(t, []int{2, 5}, breaks)
	assert.Contains(t, Periods[2], "Break")
	assert.Contains(t, Periods[5], "Break")
}
