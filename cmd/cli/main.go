package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/limaJavier/timetabling-pso/internal/config"
	"github.com/limaJavier/timetabling-pso/internal/report"
	"github.com/limaJavier/timetabling-pso/pkg/model"
	"github.com/samber/lo"
)

const (
	exitVerified   = 0
	exitViolations = 15
)

type cohortOutput struct {
	RunId     string             `json:"runId"`
	Cohort    string             `json:"cohort"`
	Penalty   float64            `json:"penalty"`
	Feasible  bool               `json:"feasible"`
	Breakdown model.Breakdown    `json:"breakdown"`
	Grid      model.Grid         `json:"grid"`
	Timetable model.DisplayGrid  `json:"timetable"`
	Summary   map[string]float64 `json:"summary"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	// Define arguments, environment values act as defaults
	filePathPtr := flag.String("file", "", "Path to the roster file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the schedules will be written; if empty, they'll be written into the Standard Output")
	textFilePathPtr := flag.String("text", "", "Path to a human-readable timetable document; skipped when empty")
	historyPrefixPtr := flag.String("history", "", "Prefix of the per-cohort convergence CSV files (\"<prefix>_<cohort>.csv\"); skipped when empty")
	csvFilePathPtr := flag.String("csv", "", "Path to a CSV file listing every scheduled slot; skipped when empty")
	flag.IntVar(&cfg.Swarm.Size, "swarm", cfg.Swarm.Size, "Number of particles")
	flag.IntVar(&cfg.Swarm.Iterations, "iterations", cfg.Swarm.Iterations, "Maximum number of iterations")
	flag.Float64Var(&cfg.Swarm.Inertia, "inertia", cfg.Swarm.Inertia, "Inertia weight")
	flag.Float64Var(&cfg.Swarm.Cognitive, "cognitive", cfg.Swarm.Cognitive, "Cognitive (personal best) coefficient")
	flag.Float64Var(&cfg.Swarm.Social, "social", cfg.Swarm.Social, "Social (global best) coefficient")
	flag.Uint64Var(&cfg.Swarm.Seed, "seed", cfg.Swarm.Seed, "Random seed; 0 seeds from the clock")
	flag.IntVar(&cfg.Swarm.Workers, "workers", cfg.Swarm.Workers, "Concurrent objective evaluations; 0 uses every CPU")
	flag.StringVar(&cfg.Cohort.Primary, "primary", cfg.Cohort.Primary, "Name of the primary cohort in the roster file")
	flag.StringVar(&cfg.Cohort.Secondary, "secondary", cfg.Cohort.Secondary, "Name of the secondary cohort in the roster file")
	flag.BoolVar(&cfg.Cohort.Scoped, "scoped", cfg.Cohort.Scoped, "Restrict each cohort's search to its own instructors")
	flag.BoolVar(&cfg.Load.ResetDaily, "reset-daily", cfg.Load.ResetDaily, "Count instructor load per day instead of per week")
	verbosePtr := flag.Bool("verbose", false, "Log search progress")
	flag.Parse()

	if *filePathPtr == "" {
		log.Fatal("an input file must be specified")
	}

	logLevel := slog.LevelInfo
	if *verbosePtr {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// Extract input
	roster, err := model.RosterFromJson(*filePathPtr, cfg.Cohort.Primary, cfg.Cohort.Secondary)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Initialize engines
	options := append(cfg.ModelOptions(), model.WithLogger(logger))
	timetabler := model.NewSwarmTimetabler(cfg.SwarmConfig(), options...)
	scorer := model.NewScorer(roster, options...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Build one timetable per cohort
	outputs := make([]cohortOutput, 0, len(model.CohortKinds))
	rows := make([]report.ScheduleRow, 0)
	var text bytes.Buffer
	for _, kind := range model.CohortKinds {
		name := roster.Cohort(kind).Name
		timetable, err := timetabler.Build(ctx, roster, kind)
		if err != nil && timetable.History == nil {
			log.Fatalf("an error occurred during timetable construction of \"%v\": %v", name, err)
		} else if err != nil {
			logger.Warn("search interrupted, keeping best timetable found", "cohort", name, "error", err)
		}

		display := model.Display(timetable.Grid, roster)
		summary := timetable.History.Summary()
		outputs = append(outputs, cohortOutput{
			RunId:     timetable.RunId.String(),
			Cohort:    name,
			Penalty:   timetable.Penalty,
			Feasible:  timetabler.Verify(timetable, roster),
			Breakdown: scorer.Breakdown(timetable.Grid),
			Grid:      timetable.Grid,
			Timetable: display,
			Summary: map[string]float64{
				"evaluations": float64(summary.Evaluations),
				"infeasible":  float64(summary.Infeasible),
				"best":        summary.Best,
				"last":        summary.Last,
				"mean":        summary.Mean,
			},
		})
		rows = append(rows, report.ScheduleRows(name, timetable.Grid, roster)...)
		if err := report.RenderText(&text, report.Title(name), display); err != nil {
			log.Fatalf("cannot render timetable of \"%v\": %v", name, err)
		}

		if *historyPrefixPtr != "" {
			err := report.WriteFile(fmt.Sprintf("%v_%v.csv", *historyPrefixPtr, name), func(w io.Writer) error {
				return report.WriteHistoryCsv(w, timetable.History)
			})
			if err != nil {
				log.Fatalf("an error occurred while writing the history of \"%v\": %v", name, err)
			}
		}
	}

	// Marshal output into json
	outputJson, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		log.Fatalf("an error occurred while building output json: %v", err)
	}

	// Verify outfile is empty, if so then write the results to the Standard Output
	if *outFilePathPtr == "" {
		fmt.Println(string(outputJson))
	} else if err := os.WriteFile(*outFilePathPtr, outputJson, 0666); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}

	if *textFilePathPtr != "" {
		if err := os.WriteFile(*textFilePathPtr, text.Bytes(), 0666); err != nil {
			log.Fatalf("an error occurred while writing the timetable document: %v", err)
		}
	}

	if *csvFilePathPtr != "" {
		err := report.WriteFile(*csvFilePathPtr, func(w io.Writer) error {
			return report.WriteScheduleCsv(w, rows)
		})
		if err != nil {
			log.Fatalf("an error occurred while writing the schedule csv: %v", err)
		}
	}

	if !lo.EveryBy(outputs, func(output cohortOutput) bool { return output.Feasible }) {
		os.Exit(exitViolations)
	}
	os.Exit(exitVerified)
}
