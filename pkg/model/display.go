package model

import (
	"fmt"
	"slices"
)

// DisplayGrid is the printable form of a schedule: one row per day, one column per period
type DisplayGrid struct {
	Days    []string
	Periods []string
	Cells   [][]string
}

// Display decodes a grid into "subject (instructor)" labels. Break periods carry BreakLabel,
// teaching periods without a known instructor are left blank
func Display(grid Grid, roster Roster) DisplayGrid {
	display := DisplayGrid{
		Days:    slices.Clone(Days[:]),
		Periods: slices.Clone(Periods[:]),
		Cells:   make([][]string, TotalDays),
	}

	for day := range TotalDays {
		display.Cells[day] = make([]string, TotalPeriods)
		for period := range TotalPeriods {
			if IsBreak(period) {
				display.Cells[day][period] = BreakLabel
				continue
			}

			id, assigned := grid[period][day].Instructor()
			if instructor, known := roster.Instructor(id); assigned && known {
				display.Cells[day][period] = fmt.Sprintf("%v (%v)", instructor.Subject, instructor.Name)
			}
		}
	}

	return display
}
