package srs

import (
	"math"
	"time"

	"github.com/phrazzld/repeat/internal/domain"
)

const secondsPerDay = 86400.0

// recall estimates the probability that a card with the given stability is
// still remembered after elapsedDays.
//
// Parameters:
//   - elapsedDays: days since the last review, never negative
//   - stability: the card's stability in days, strictly positive
//
// Returns:
//   - A probability in (0, 1]; exactly 1 when no time has passed
func recall(elapsedDays, stability float64) float64 {
	return math.Pow(1+DecayFactor*elapsedDays/stability, Decay)
}

// intervalForRecall inverts recall: the number of days after which recall
// falls to target. For target 0.9 this equals stability.
func intervalForRecall(target, stability float64) float64 {
	return (stability / DecayFactor) * (math.Pow(target, 1/Decay) - 1)
}

// updateStability computes the stability after reviewing a card that was
// already scheduled.
//
// The growth factor is
//
//	alpha = 1 + (11 - D) * S^-w9 * (e^(w10*(1-R)) - 1) * h * e^w8
//
// where h is the failure penalty on a fail and 1 otherwise. Easy cards
// (low D), cards that were close to being forgotten (low R) and cards that
// are not yet stable (low S) grow fastest.
//
// Parameters:
//   - difficulty: the card's difficulty before this review, in [1, 10]
//   - stability: the card's stability before this review
//   - r: the recall estimate at review time
//   - outcome: pass or fail
//   - w: the weight table
//
// Returns:
//   - The new stability, S * alpha. No clamping is applied.
func updateStability(
	difficulty float64,
	stability float64,
	r float64,
	outcome domain.ReviewOutcome,
	w Weights,
) float64 {
	h := 1.0
	if outcome == domain.ReviewOutcomeFail {
		h = w.FailurePenalty()
	}

	alpha := 1 + (11-difficulty)*
		math.Pow(stability, -w.StabilityDecay())*
		(math.Exp(w.RecallGrowth()*(1-r))-1)*
		h*
		math.Exp(w.StabilityGrowth())

	return stability * alpha
}

// initialDifficulty is the difficulty of a new card after its first review.
//
//	D0(g) = w4 - e^(w5*(g-1)) + 1
//
// clamped to [1, 10].
func initialDifficulty(outcome domain.ReviewOutcome, w Weights) float64 {
	g := float64(outcome.Grade())
	return clampDifficulty(w.InitialDifficultyBase() - math.Exp(w.InitialDifficultyGradeScale()*(g-1)) + 1)
}

// updateDifficulty moves the difficulty by a grade-dependent delta, scaled
// so that it approaches 10 asymptotically, then reverts it slightly toward
// the initial difficulty of a passed card:
//
//	D' = w7*D0(pass) + (1-w7)*(D + delta*(10-D)/9),  delta = -w6*(g-3)
//
// A pass leaves the delta at zero; a fail raises the difficulty. The result
// is clamped to [1, 10], which is the only place difficulty bounds are
// enforced for reviewed cards.
func updateDifficulty(difficulty float64, outcome domain.ReviewOutcome, w Weights) float64 {
	delta := -w.DifficultyDelta() * float64(outcome.Grade()-3)
	adjusted := difficulty + delta*(domain.MaxDifficulty-difficulty)/9
	reverted := w.DifficultyMeanReversion()*initialDifficulty(domain.ReviewOutcomePass, w) +
		(1-w.DifficultyMeanReversion())*adjusted
	return clampDifficulty(reverted)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, domain.MinDifficulty), domain.MaxDifficulty)
}

// scheduleDays rounds the raw interval half away from zero and clamps it to
// the configured bounds. Non-finite intervals take the upper bound.
func scheduleDays(intervalRaw float64, params *Params) int {
	if math.IsNaN(intervalRaw) || math.IsInf(intervalRaw, 1) {
		return params.MaxIntervalDays
	}
	rounded := math.Round(intervalRaw)
	if rounded < float64(params.MinIntervalDays) {
		return params.MinIntervalDays
	}
	if rounded > float64(params.MaxIntervalDays) {
		return params.MaxIntervalDays
	}
	return int(rounded)
}

// elapsedDays is the whole-second time between two reviews expressed in
// days. A review timestamped before the previous one counts as no time
// elapsed.
func elapsedDays(lastReviewedAt, reviewedAt time.Time) float64 {
	seconds := float64(reviewedAt.Sub(lastReviewedAt) / time.Second)
	return math.Max(0, seconds/secondsPerDay)
}

// usable reports whether a reviewed state can be fed into the update
// formulas. Stored state that fails this check is re-seeded.
func usable(p domain.ReviewedPerformance) bool {
	return p.Stability > 0 && !math.IsInf(p.Stability, 0) && !math.IsNaN(p.Difficulty) &&
		!math.IsInf(p.Difficulty, 0)
}

// UpdatePerformance computes the next scheduling state of a card.
//
// For a new card (nil or domain.NewPerformance) stability and difficulty
// come from the initial formulas. For a reviewed card the recall at review
// time is estimated from the elapsed days and fed into the update formulas.
// The next interval is the time until recall falls to params.TargetRecall
// (0.9 unless configured otherwise; stability and difficulty do not depend
// on it), rounded and clamped to the configured bounds; the due date is reviewedAt
// plus that many days.
//
// The function never fails: out-of-order timestamps count as zero elapsed
// time, and a reviewed state with non-positive or non-finite stability (or
// non-finite difficulty) is re-seeded from the initial formulas while its
// review count carries on.
func UpdatePerformance(
	params *Params,
	prior domain.Performance,
	outcome domain.ReviewOutcome,
	reviewedAt time.Time,
) domain.ReviewedPerformance {
	w := params.Weights

	stability := w.InitialStability(outcome)
	difficulty := initialDifficulty(outcome, w)
	reviewCount := 0

	if p, ok := prior.(domain.ReviewedPerformance); ok {
		reviewCount = p.ReviewCount
		if usable(p) {
			r := recall(elapsedDays(p.LastReviewedAt, reviewedAt), p.Stability)
			prevDifficulty := clampDifficulty(p.Difficulty)
			stability = updateStability(prevDifficulty, p.Stability, r, outcome, w)
			difficulty = updateDifficulty(prevDifficulty, outcome, w)
		}
	}

	intervalRaw := intervalForRecall(params.TargetRecall, stability)
	days := scheduleDays(intervalRaw, params)

	return domain.ReviewedPerformance{
		LastReviewedAt: reviewedAt,
		Stability:      stability,
		Difficulty:     difficulty,
		IntervalRaw:    intervalRaw,
		IntervalDays:   days,
		DueDate:        domain.DueDate(reviewedAt, days),
		ReviewCount:    reviewCount + 1,
	}
}
