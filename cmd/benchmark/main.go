package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/timetabling-pso/internal/config"
	"github.com/limaJavier/timetabling-pso/pkg/model"
	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

const resultsFile = "benchmark_results.csv"

type ResultType int

const (
	feasible ResultType = iota
	infeasible
)

var resultTypes = map[ResultType]string{
	feasible:   "feasible",
	infeasible: "infeasible",
}

type SwarmMetadata struct {
	Size    int
	Inertia float64
	Seed    uint64
}

type BenchmarkResult struct {
	Cohort          string  `csv:"Cohort"`
	SwarmSize       int     `csv:"Swarm"`
	Inertia         float64 `csv:"Inertia"`
	Seed            uint64  `csv:"Seed"`
	Iterations      int     `csv:"Iterations"`
	Duration        int64   `csv:"Duration(ms)"`
	Penalty         float64 `csv:"Penalty"`
	InfeasibleRatio float64 `csv:"Infeasible(%)"`
	Result          string  `csv:"Result"`
}

func main() {
	filePathPtr := flag.String("file", "", "Path to the roster file")
	flag.Parse()
	if *filePathPtr == "" {
		log.Fatal("an input file must be specified")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	roster, err := model.RosterFromJson(*filePathPtr, cfg.Cohort.Primary, cfg.Cohort.Secondary)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	runs := getRuns()
	results := make([]BenchmarkResult, 0, len(runs)*len(model.CohortKinds))

	for _, run := range runs {
		for _, cohort := range model.CohortKinds {
			fmt.Printf("Benchmarking cohort \"%v\" with swarm size \"%v\", inertia \"%v\" and seed \"%v\"\n", roster.Cohort(cohort).Name, run.Size, run.Inertia, run.Seed)

			swarmConfig := cfg.SwarmConfig()
			swarmConfig.SwarmSize = run.Size
			swarmConfig.Inertia = run.Inertia
			swarmConfig.Seed = run.Seed

			results = append(results, measure(roster, cohort, swarmConfig, cfg.ModelOptions()))
		}
	}

	toCsv(results)
}

func getRuns() []SwarmMetadata {
	sizes := []int{10, 25, 50, 100}
	inertias := []float64{0.3, 0.5, 0.7, 0.9}
	seeds := []uint64{1, 2, 3}

	runs := make([]SwarmMetadata, 0, len(sizes)*len(inertias)*len(seeds))
	for _, size := range sizes {
		for _, inertia := range inertias {
			for _, seed := range seeds {
				runs = append(runs, SwarmMetadata{Size: size, Inertia: inertia, Seed: seed})
			}
		}
	}
	return runs
}

func measure(roster model.Roster, cohort model.CohortKind, swarmConfig swarm.Config, options []model.Option) BenchmarkResult {
	timetabler := model.NewSwarmTimetabler(swarmConfig, options...)

	start := time.Now()
	timetable, err := timetabler.Build(context.Background(), roster, cohort)
	duration := time.Since(start)
	if err != nil {
		log.Fatalf("an error occurred during the construction of cohort \"%v\" using swarm size \"%v\", inertia \"%v\", seed \"%v\": %v\n", roster.Cohort(cohort).Name, swarmConfig.SwarmSize, swarmConfig.Inertia, swarmConfig.Seed, err)
	}

	result := infeasible
	if timetabler.Verify(timetable, roster) {
		result = feasible
	}

	return BenchmarkResult{
		Cohort:          roster.Cohort(cohort).Name,
		SwarmSize:       swarmConfig.SwarmSize,
		Inertia:         swarmConfig.Inertia,
		Seed:            swarmConfig.Seed,
		Iterations:      timetable.Iterations,
		Duration:        duration.Milliseconds(),
		Penalty:         timetable.Penalty,
		InfeasibleRatio: infeasibleRatio(timetable.History),
		Result:          resultTypes[result],
	}
}

func infeasibleRatio(history swarm.History) float64 {
	summary := history.Summary()
	if summary.Evaluations == 0 {
		return 0
	}
	return 100 * float64(summary.Infeasible) / float64(summary.Evaluations)
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}
}
