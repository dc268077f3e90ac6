// Package stats holds per-question answer counters and the selection
// weight derived from them.
package stats

// Pair is a per-question (correct, wrong) counter pair. Counts are
// non-negative. Two scopes exist: the general aggregate across all
// learners, and a per-user scope keyed by user key.
type Pair struct {
	Correct int
	Wrong   int
}

func (p Pair) Attempts() int {
	return p.Correct + p.Wrong
}

// GeneralDamping blends the general aggregate into a user's own counters
// so a learner with no history still gets signal from everyone else's.
const GeneralDamping = 0.35

// Weight computes the selection weight of a question from user-scoped and
// general-scoped counters:
//
//	weightedCorrect = correctU + correctG*0.35
//	weightedWrong   = wrongU + wrongG*0.35
//	weight          = (weightedWrong + 1) / (weightedCorrect + 1)
//
// The +1 on both sides keeps the weight strictly positive, so no question
// ever reaches zero selection probability. Weight grows with wrong answers
// and shrinks with correct ones.
func Weight(user, general Pair) float64 {
	weightedCorrect := float64(user.Correct) + float64(general.Correct)*GeneralDamping
	weightedWrong := float64(user.Wrong) + float64(general.Wrong)*GeneralDamping
	return (weightedWrong + 1) / (weightedCorrect + 1)
}

// Set maps question ids to counters within one scope.
type Set map[string]Pair

// Bump increments exactly one of the two counters for a question.
func (s Set) Bump(questionID string, correct bool) {
	p := s[questionID]
	if correct {
		p.Correct++
	} else {
		p.Wrong++
	}
	s[questionID] = p
}
