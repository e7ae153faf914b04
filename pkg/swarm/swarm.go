package swarm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Objective returns a non-negative penalty for a candidate; lower is better.
// Implementations are called concurrently and must not modify the candidate
type Objective interface {
	Evaluate(candidate []float64) float64
}

type ObjectiveFunc func(candidate []float64) float64

func (f ObjectiveFunc) Evaluate(candidate []float64) float64 {
	return f(candidate)
}

type Result struct {
	Best       []float64
	Penalty    float64
	Iterations int // Completed iterations, not counting the initial evaluation
	History    History
}

type Option func(*searchOptions)

type searchOptions struct {
	logger *slog.Logger
}

func WithLogger(logger *slog.Logger) Option {
	return func(options *searchOptions) {
		if logger != nil {
			options.logger = logger
		}
	}
}

type particle struct {
	position     []float64
	velocity     []float64
	bestPosition []float64
	penalty      float64
	bestPenalty  float64
}

type searcher struct {
	config    Config
	bounds    Bounds
	objective Objective
	rng       *rand.Rand
	logger    *slog.Logger
	tracker   *Tracker

	particles     []particle
	globalBest    []float64
	globalPenalty float64
}

// Search runs a particle swarm over the objective within the given bounds.
// When ctx is cancelled the best candidate found so far is returned along with ctx.Err()
func Search(ctx context.Context, bounds Bounds, objective Objective, config Config, options ...Option) (Result, error) {
	if err := config.Validate(); err != nil {
		return Result{}, err
	} else if err := bounds.Validate(); err != nil {
		return Result{}, err
	} else if objective == nil {
		return Result{}, fmt.Errorf("%w: objective must not be nil", ErrInvalidConfiguration)
	}

	opts := searchOptions{logger: slog.New(slog.DiscardHandler)}
	for _, option := range options {
		option(&opts)
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &searcher{
		config:        config,
		bounds:        bounds,
		objective:     objective,
		rng:           rand.New(rand.NewPCG(seed, seed>>1|1)),
		logger:        opts.logger,
		tracker:       NewTracker(config.InfeasibleThreshold, config.AverageWindow),
		globalPenalty: math.Inf(1),
	}
	s.initialize()

	//** Evaluate initial swarm
	if err := s.evaluate(ctx); err != nil {
		return Result{}, err
	}
	s.fold(0)

	iterations, stall := 0, 0
	for iteration := 1; iteration <= config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			s.logger.Info("search cancelled", "iteration", iteration, "best", s.globalPenalty)
			return s.result(iterations), err
		}

		s.move()
		if err := s.evaluate(ctx); err != nil {
			s.logger.Info("search cancelled", "iteration", iteration, "best", s.globalPenalty)
			return s.result(iterations), err
		}
		improved := s.fold(iteration)
		iterations = iteration

		s.logger.Debug("iteration completed",
			"iteration", iteration,
			"best", s.globalPenalty,
			"average", s.tracker.History()[len(s.tracker.History())-1].Average,
		)

		if improved {
			stall = 0
		} else if stall++; config.StallIterations > 0 && stall >= config.StallIterations {
			s.logger.Info("search stalled", "iteration", iteration, "best", s.globalPenalty)
			break
		}
	}

	return s.result(iterations), nil
}

func (s *searcher) initialize() {
	dimensions := s.bounds.Dimensions()
	s.particles = make([]particle, s.config.SwarmSize)
	s.globalBest = make([]float64, dimensions)

	for i := range s.particles {
		p := &s.particles[i]
		p.position = make([]float64, dimensions)
		p.velocity = make([]float64, dimensions)
		p.bestPosition = make([]float64, dimensions)
		p.bestPenalty = math.Inf(1)

		for d := range dimensions {
			span := s.bounds.Upper[d] - s.bounds.Lower[d]
			p.position[d] = s.bounds.Lower[d] + s.rng.Float64()*span
			p.velocity[d] = -span + s.rng.Float64()*2*span
		}
		copy(p.bestPosition, p.position)
	}
	copy(s.globalBest, s.particles[0].position)
}

// Evaluates every particle's current position concurrently, at most Workers at a time
func (s *searcher) evaluate(ctx context.Context) error {
	workers := s.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i := range s.particles {
		p := &s.particles[i]
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			p.penalty = s.objective.Evaluate(p.position)
			return nil
		})
	}
	return group.Wait()
}

// Folds the evaluated penalties into personal bests, the global best and the history.
// Runs after the evaluation barrier in particle order, so it is the only writer of the global best
func (s *searcher) fold(iteration int) (improved bool) {
	for i := range s.particles {
		p := &s.particles[i]
		s.tracker.Observe(iteration, i, p.penalty)

		if p.penalty < p.bestPenalty {
			p.bestPenalty = p.penalty
			copy(p.bestPosition, p.position)
		}
		if p.penalty < s.globalPenalty {
			s.globalPenalty = p.penalty
			copy(s.globalBest, p.position)
			improved = true
		}
	}
	return improved
}

func (s *searcher) move() {
	for i := range s.particles {
		p := &s.particles[i]
		for d := range p.position {
			rp, rg := s.rng.Float64(), s.rng.Float64()
			p.velocity[d] = s.config.Inertia*p.velocity[d] +
				s.config.Cognitive*rp*(p.bestPosition[d]-p.position[d]) +
				s.config.Social*rg*(s.globalBest[d]-p.position[d])
			p.position[d] = s.bounds.clamp(d, p.position[d]+p.velocity[d])
		}
	}
}

func (s *searcher) result(iterations int) Result {
	best := make([]float64, len(s.globalBest))
	copy(best, s.globalBest)
	return Result{
		Best:       best,
		Penalty:    s.globalPenalty,
		Iterations: iterations,
		History:    s.tracker.History(),
	}
}
