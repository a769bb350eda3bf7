package srs

import (
	"github.com/phrazzld/repeat/internal/domain"
)

// Shape of the forgetting curve R(t) = (1 + F*t/S)^C. With these values
// R(S) = 0.9, so stability is the number of days until recall drops to 90%.
const (
	DecayFactor = 19.0 / 81.0
	Decay       = -0.5
)

// DefaultTargetRecall is the recall probability intervals are scheduled for.
const DefaultTargetRecall = 0.9

// DefaultWeightsVersion names the weight table shipped with repeat.
const DefaultWeightsVersion = "fsrs-4.5-pass-fail"

// Weights is the ordered table of 19 tuned FSRS coefficients. Positions keep
// their meaning across table versions; use the named accessors rather than
// indexing. Positions 0, 3, 11-14 and 16-18 belong to grades this scheduler
// does not use and are kept so that published tables can be loaded as-is.
type Weights [19]float64

// DefaultWeights is the published table for the default version.
var DefaultWeights = Weights{
	0.40255, 1.18385, 3.173, 15.69105, 7.1949, 0.5345, 1.4604, 0.0046, 1.54575, 0.1192, 1.01925,
	1.9395, 0.11, 0.29605, 2.2698, 0.2315, 2.9898, 0.51655, 0.6621,
}

// InitialStability is the stability of a new card after its first review.
func (w Weights) InitialStability(outcome domain.ReviewOutcome) float64 {
	if outcome == domain.ReviewOutcomeFail {
		return w[1]
	}
	return w[2]
}

// InitialDifficultyBase is the difficulty of a card graded 1.
func (w Weights) InitialDifficultyBase() float64 { return w[4] }

// InitialDifficultyGradeScale scales how much a higher grade lowers the initial difficulty.
func (w Weights) InitialDifficultyGradeScale() float64 { return w[5] }

// DifficultyDelta scales the per-review difficulty change.
func (w Weights) DifficultyDelta() float64 { return w[6] }

// DifficultyMeanReversion weights the pull back toward the default difficulty.
func (w Weights) DifficultyMeanReversion() float64 { return w[7] }

// StabilityGrowth is the exponent of the overall stability growth factor.
func (w Weights) StabilityGrowth() float64 { return w[8] }

// StabilityDecay is the exponent damping growth for already stable cards.
func (w Weights) StabilityDecay() float64 { return w[9] }

// RecallGrowth scales how much a low recall estimate boosts growth.
func (w Weights) RecallGrowth() float64 { return w[10] }

// FailurePenalty multiplies growth when the review failed.
func (w Weights) FailurePenalty() float64 { return w[15] }

// Params defines all configurable parameters for the FSRS scheduler.
// A Params value is built once and shared read-only.
type Params struct {
	Version         string
	Weights         Weights
	TargetRecall    float64
	MinIntervalDays int
	MaxIntervalDays int
}

// ParamsConfig allows overriding the default parameters. Zero fields keep
// their defaults.
type ParamsConfig struct {
	Version         string
	Weights         *Weights
	TargetRecall    float64
	MinIntervalDays int
	MaxIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		Version:         DefaultWeightsVersion,
		Weights:         DefaultWeights,
		TargetRecall:    DefaultTargetRecall,
		MinIntervalDays: domain.MinIntervalDays,
		MaxIntervalDays: domain.MaxIntervalDays,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Interval bounds are kept inside [1, 256] days and the target recall
// inside (0, 1).
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.Weights != nil {
		params.Weights = *config.Weights
		params.Version = "custom"
	}
	if config.Version != "" {
		params.Version = config.Version
	}

	if config.TargetRecall > 0 && config.TargetRecall < 1 {
		params.TargetRecall = config.TargetRecall
	}

	if config.MinIntervalDays > 0 {
		params.MinIntervalDays = min(config.MinIntervalDays, domain.MaxIntervalDays)
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = min(config.MaxIntervalDays, domain.MaxIntervalDays)
	}
	if params.MaxIntervalDays < params.MinIntervalDays {
		params.MaxIntervalDays = params.MinIntervalDays
	}

	return params
}
