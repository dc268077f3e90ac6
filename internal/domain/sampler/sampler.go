// Package sampler draws the next practice question with probability
// proportional to its selection weight (roulette-wheel selection).
package sampler

import (
	"math/rand"

	"github.com/reviewly/backend/internal/domain/question"
)

// WeightFunc returns the selection weight for a question id. Weights are
// expected to be strictly positive (see stats.Weight).
type WeightFunc func(questionID string) float64

// Pick draws one question from the pool using the process-wide random
// source. See PickWith.
func Pick(pool []question.Question, weightOf WeightFunc, excludeID string) *question.Question {
	return pickFrom(rand.Float64, pool, weightOf, excludeID)
}

// PickWith draws one question using the given random source, which makes
// the draw reproducible in tests.
//
// If excludeID is set and the pool has more than one member, that
// question (typically the one just answered) is removed before weighting
// so it cannot repeat immediately; if filtering would empty the pool the
// unfiltered pool is used instead. An empty pool yields nil — a valid
// terminal state, not an error.
func PickWith(r *rand.Rand, pool []question.Question, weightOf WeightFunc, excludeID string) *question.Question {
	return pickFrom(r.Float64, pool, weightOf, excludeID)
}

func pickFrom(random func() float64, pool []question.Question, weightOf WeightFunc, excludeID string) *question.Question {
	candidates := pool
	if excludeID != "" && len(pool) > 1 {
		filtered := make([]question.Question, 0, len(pool)-1)
		for _, q := range pool {
			if q.ID != excludeID {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	total := 0.0
	weights := make([]float64, len(candidates))
	for i, q := range candidates {
		weights[i] = weightOf(q.ID)
		total += weights[i]
	}

	remainder := random() * total
	for i := range candidates {
		remainder -= weights[i]
		if remainder <= 0 {
			return &candidates[i]
		}
	}

	// Float residue can leave the remainder barely above zero after the
	// full pass; the last candidate wins in that case.
	return &candidates[len(candidates)-1]
}
