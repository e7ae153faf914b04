package swarm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ErrInvalidConfiguration is returned (wrapped) whenever a search cannot start because of its parameters or bounds
var ErrInvalidConfiguration = errors.New("invalid configuration")

var validate = validator.New()

type Config struct {
	SwarmSize     int     `validate:"gt=0"`
	MaxIterations int     `validate:"gt=0"`
	Inertia       float64 // Weight of the previous velocity; negative values are allowed
	Cognitive     float64 `validate:"gte=0"` // Pull towards the particle's own best position
	Social        float64 `validate:"gte=0"` // Pull towards the swarm's best position
	Workers       int     `validate:"gte=0"` // Concurrent objective evaluations per iteration, 0 means GOMAXPROCS

	InfeasibleThreshold float64 // Penalties strictly above this value are flagged as infeasible in the history
	AverageWindow       int     `validate:"gt=0"`  // Number of trailing penalties averaged in the history
	StallIterations     int     `validate:"gte=0"` // Stop after this many iterations without improvement, 0 disables it

	Seed uint64 // Random seed, 0 picks a time-based one
}

func DefaultConfig() Config {
	return Config{
		SwarmSize:           50,
		MaxIterations:       500,
		Inertia:             0.5,
		Cognitive:           1.5,
		Social:              1.5,
		InfeasibleThreshold: 100,
		AverageWindow:       100,
	}
}

func (config Config) Validate() error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	messages := lo.Map([]validator.FieldError(fieldErrors), func(fieldError validator.FieldError, _ int) string {
		return fmt.Sprintf("%v must satisfy \"%v %v\" (got %v)", fieldError.Field(), fieldError.Tag(), fieldError.Param(), fieldError.Value())
	})
	return fmt.Errorf("%w: %v", ErrInvalidConfiguration, strings.Join(messages, "; "))
}

// Bounds holds the per-dimension search interval [Lower[i], Upper[i]]
type Bounds struct {
	Lower []float64
	Upper []float64
}

func UniformBounds(dimensions int, lower, upper float64) Bounds {
	bounds := Bounds{
		Lower: make([]float64, dimensions),
		Upper: make([]float64, dimensions),
	}
	for i := range dimensions {
		bounds.Lower[i], bounds.Upper[i] = lower, upper
	}
	return bounds
}

func (bounds Bounds) Dimensions() int {
	return len(bounds.Lower)
}

func (bounds Bounds) Validate() error {
	if len(bounds.Lower) == 0 {
		return fmt.Errorf("%w: bounds must have at least one dimension", ErrInvalidConfiguration)
	} else if len(bounds.Lower) != len(bounds.Upper) {
		return fmt.Errorf("%w: lower and upper bounds differ in length (%v != %v)", ErrInvalidConfiguration, len(bounds.Lower), len(bounds.Upper))
	}

	for i := range bounds.Lower {
		lower, upper := bounds.Lower[i], bounds.Upper[i]
		if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) {
			return fmt.Errorf("%w: bounds of dimension %v must be finite", ErrInvalidConfiguration, i)
		} else if lower > upper {
			return fmt.Errorf("%w: lower bound of dimension %v is greater than its upper bound (%v > %v)", ErrInvalidConfiguration, i, lower, upper)
		}
	}
	return nil
}

func (bounds Bounds) clamp(dimension int, value float64) float64 {
	return min(max(value, bounds.Lower[dimension]), bounds.Upper[dimension])
}
