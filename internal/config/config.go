package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/limaJavier/timetabling-pso/pkg/model"
	"github.com/limaJavier/timetabling-pso/pkg/swarm"
)

const Prefix = "TIMETABLE_"

type Config struct {
	Swarm struct {
		Size            int     `env:"SIZE" envDefault:"50"`
		Iterations      int     `env:"ITERATIONS" envDefault:"500"`
		Inertia         float64 `env:"INERTIA" envDefault:"0.5"`
		Cognitive       float64 `env:"COGNITIVE" envDefault:"1.5"`
		Social          float64 `env:"SOCIAL" envDefault:"1.5"`
		Workers         int     `env:"WORKERS" envDefault:"0"` // 0 uses every available CPU
		StallIterations int     `env:"STALL_ITERATIONS" envDefault:"0"`
		Seed            uint64  `env:"SEED" envDefault:"0"`
	} `envPrefix:"SWARM_"`
	Statistics struct {
		InfeasibleThreshold float64 `env:"INFEASIBLE_THRESHOLD" envDefault:"100"`
		AverageWindow       int     `env:"AVERAGE_WINDOW" envDefault:"100"`
	} `envPrefix:"STATISTICS_"`
	Penalty struct {
		Break             float64 `env:"BREAK" envDefault:"100"`
		UnknownInstructor float64 `env:"UNKNOWN_INSTRUCTOR" envDefault:"100"`
		Availability      float64 `env:"AVAILABILITY" envDefault:"50"`
		Overload          float64 `env:"OVERLOAD" envDefault:"50"`
		Repetition        float64 `env:"REPETITION" envDefault:"50"`
	} `envPrefix:"PENALTY_"`
	Load struct {
		MaxDaily   int  `env:"MAX_DAILY" envDefault:"2"`
		ResetDaily bool `env:"RESET_DAILY" envDefault:"false"`
	} `envPrefix:"LOAD_"`
	Cohort struct {
		Primary   string `env:"PRIMARY" envDefault:"bct"`
		Secondary string `env:"SECONDARY" envDefault:"bei"`
		Scoped    bool   `env:"SCOPED" envDefault:"false"`
	} `envPrefix:"COHORT_"`
	FreeBreakCells bool `env:"FREE_BREAK_CELLS" envDefault:"false"`
}

// Load reads the configuration from TIMETABLE_* environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok && len(aggErr.Errors) > 0 {
			// Only the first error is reported to keep the output readable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) SwarmConfig() swarm.Config {
	return swarm.Config{
		SwarmSize:           cfg.Swarm.Size,
		MaxIterations:       cfg.Swarm.Iterations,
		Inertia:             cfg.Swarm.Inertia,
		Cognitive:           cfg.Swarm.Cognitive,
		Social:              cfg.Swarm.Social,
		Workers:             cfg.Swarm.Workers,
		InfeasibleThreshold: cfg.Statistics.InfeasibleThreshold,
		AverageWindow:       cfg.Statistics.AverageWindow,
		StallIterations:     cfg.Swarm.StallIterations,
		Seed:                cfg.Swarm.Seed,
	}
}

func (cfg *Config) ModelOptions() []model.Option {
	options := []model.Option{
		model.WithPenalties(model.Penalties{
			Break:             cfg.Penalty.Break,
			UnknownInstructor: cfg.Penalty.UnknownInstructor,
			Availability:      cfg.Penalty.Availability,
			Overload:          cfg.Penalty.Overload,
			Repetition:        cfg.Penalty.Repetition,
		}),
		model.WithMaxDailyLoad(cfg.Load.MaxDaily),
	}
	if cfg.Load.ResetDaily {
		options = append(options, model.WithDailyLoadReset())
	}
	if cfg.Cohort.Scoped {
		options = append(options, model.WithCohortScopedBounds())
	}
	if cfg.FreeBreakCells {
		options = append(options, model.WithFreeBreakCells())
	}
	return options
}
