package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/timetabling-pso/pkg/model"
	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

// ScheduleRow is one teaching slot of a built timetable
type ScheduleRow struct {
	Cohort     string `csv:"cohort"`
	Day        string `csv:"day"`
	Period     string `csv:"period"`
	Instructor string `csv:"instructor"`
	Subject    string `csv:"subject"`
	Type       string `csv:"type"`
}

func Title(cohort string) string {
	return fmt.Sprintf("%v Timetable", strings.ToUpper(cohort))
}

// RenderText writes a titled table with one row per day and one column per period
func RenderText(w io.Writer, title string, display model.DisplayGrid) error {
	if _, err := fmt.Fprintf(w, "%v\n\n", title); err != nil {
		return err
	}

	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "\t%v\t\n", strings.Join(display.Periods, "\t"))
	for day, cells := range display.Cells {
		cells = blankAsDash(cells)
		fmt.Fprintf(writer, "%v\t%v\t\n", display.Days[day], strings.Join(cells, "\t"))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w)
	return err
}

func WriteHistoryCsv(w io.Writer, history swarm.History) error {
	if len(history) == 0 {
		return nil
	}
	return gocsv.Marshal(history, w)
}

// ScheduleRows lists the known assignments of a grid ordered by day, then period
func ScheduleRows(cohort string, grid model.Grid, roster model.Roster) []ScheduleRow {
	rows := make([]ScheduleRow, 0)
	for day := range model.TotalDays {
		for period := range model.TotalPeriods {
			id, assigned := grid[period][day].Instructor()
			instructor, known := roster.Instructor(id)
			if !assigned || !known || model.IsBreak(period) {
				continue
			}
			rows = append(rows, ScheduleRow{
				Cohort:     cohort,
				Day:        model.Days[day],
				Period:     model.Periods[period],
				Instructor: instructor.Name,
				Subject:    instructor.Subject,
				Type:       instructor.Availability.String(),
			})
		}
	}
	return rows
}

func WriteScheduleCsv(w io.Writer, rows []ScheduleRow) error {
	return gocsv.Marshal(rows, w)
}

// WriteFile creates path and hands it to write. The file is always closed; a failed close is reported
func WriteFile(path string, write func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create file \"%v\": %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("cannot close file \"%v\": %w", path, closeErr)
		}
	}()

	if err := write(file); err != nil {
		return fmt.Errorf("cannot write file \"%v\": %w", path, err)
	}
	return nil
}

func blankAsDash(cells []string) []string {
	result := make([]string, len(cells))
	for i, cell := range cells {
		if cell == "" {
			cell = "-"
		}
		result[i] = cell
	}
	return result
}
