package model

import "log/slog"

type Penalties struct {
	Break             float64 `json:"break"`             // Instructor assigned to a break period
	UnknownInstructor float64 `json:"unknownInstructor"` // Teaching period without a valid instructor
	Availability      float64 `json:"availability"`      // Instructor outside their morning/afternoon class
	Overload          float64 `json:"overload"`          // Every assignment past the load limit
	Repetition        float64 `json:"repetition"`        // Every repetition of a subject within a day
}

func DefaultPenalties() Penalties {
	return Penalties{
		Break:             100,
		UnknownInstructor: 100,
		Availability:      50,
		Overload:          50,
		Repetition:        50,
	}
}

const DefaultMaxDailyLoad = 2

type Option func(*options)

type options struct {
	penalties      Penalties
	maxDailyLoad   int
	dailyLoadReset bool
	freeBreakCells bool
	cohortScoped   bool
	logger         *slog.Logger
}

func newOptions(opts ...Option) options {
	result := options{
		penalties:    DefaultPenalties(),
		maxDailyLoad: DefaultMaxDailyLoad,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&result)
	}
	return result
}

func WithPenalties(penalties Penalties) Option {
	return func(options *options) {
		options.penalties = penalties
	}
}

func WithMaxDailyLoad(load int) Option {
	return func(options *options) {
		options.maxDailyLoad = load
	}
}

// WithDailyLoadReset counts the load limit per (instructor, day) instead of accumulating it over the whole week
func WithDailyLoadReset() Option {
	return func(options *options) {
		options.dailyLoadReset = true
	}
}

// WithFreeBreakCells lets the search place instructors on break periods (they're penalised instead of pinned empty)
func WithFreeBreakCells() Option {
	return func(options *options) {
		options.freeBreakCells = true
	}
}

// WithCohortScopedBounds restricts each cohort's schedule to that cohort's own instructors
func WithCohortScopedBounds() Option {
	return func(options *options) {
		options.cohortScoped = true
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(options *options) {
		if logger != nil {
			options.logger = logger
		}
	}
}
