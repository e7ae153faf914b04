package model

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

const (
	TotalDays    = 5
	TotalPeriods = 7
	TotalCells   = TotalDays * TotalPeriods

	LastMorningPeriod = 2 // Periods with an ordinal up to this one are morning periods
	BreakLabel        = "Break"

	emptySentinel     = -1
	invalidInstructor = math.MinInt32 // Decoded from values that cannot be an instructor id (NaN, infinities, overflow)
)

var (
	Days         = [TotalDays]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}
	Periods      = [TotalPeriods]string{"6:40-8:20", "8:20-10:00", "10:00-10:50 (Break)", "10:50-12:30", "12:30-14:10", "14:10-15:00 (Break)", "15:00-16:40"}
	BreakPeriods = []int{2, 5}
)

func IsBreak(period int) bool {
	return slices.Contains(BreakPeriods, period)
}

// IsMorning is computed from the ordinal alone, break periods included
func IsMorning(period int) bool {
	return period <= LastMorningPeriod
}

// Cell is either empty or assigned to a global instructor id. The numeric sentinel -1 only exists in candidate vectors
type Cell struct {
	instructor int
	assigned   bool
}

func Empty() Cell {
	return Cell{}
}

func Assigned(instructor int) Cell {
	return Cell{instructor: instructor, assigned: true}
}

func (cell Cell) Instructor() (id int, ok bool) {
	return cell.instructor, cell.assigned
}

func (cell Cell) IsEmpty() bool {
	return !cell.assigned
}

func (cell Cell) MarshalJSON() ([]byte, error) {
	if !cell.assigned {
		return []byte("null"), nil
	}
	return json.Marshal(cell.instructor)
}

func (cell *Cell) UnmarshalJSON(data []byte) error {
	var instructor *int
	if err := json.Unmarshal(data, &instructor); err != nil {
		return err
	}
	if instructor == nil {
		*cell = Empty()
	} else {
		*cell = Assigned(*instructor)
	}
	return nil
}

// DecodeCell truncates a candidate value toward zero; -1 decodes to an empty cell.
// It never fails: values that cannot be an id decode to an instructor no roster knows
func DecodeCell(value float64) Cell {
	if math.IsNaN(value) || value > math.MaxInt32 || value < math.MinInt32 {
		return Assigned(invalidInstructor)
	}

	id := int(value)
	if id == emptySentinel {
		return Empty()
	}
	return Assigned(id)
}

func EncodeCell(cell Cell) float64 {
	if id, ok := cell.Instructor(); ok {
		return float64(id)
	}
	return emptySentinel
}

// Grid is indexed by [period][day]; its zero value is an empty week
type Grid [TotalPeriods][TotalDays]Cell

// DecodeVector reshapes a candidate vector in period-major order
func DecodeVector(vector []float64) (Grid, error) {
	var grid Grid
	if len(vector) != TotalCells {
		return grid, fmt.Errorf("%w: candidate vector must have %v values, got %v", swarm.ErrInvalidConfiguration, TotalCells, len(vector))
	}

	for i, value := range vector {
		grid[i/TotalDays][i%TotalDays] = DecodeCell(value)
	}
	return grid, nil
}

func (grid Grid) Vector() []float64 {
	vector := make([]float64, 0, TotalCells)
	for period := range TotalPeriods {
		for day := range TotalDays {
			vector = append(vector, EncodeCell(grid[period][day]))
		}
	}
	return vector
}
