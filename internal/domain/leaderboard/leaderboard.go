// Package leaderboard ranks published questions by difficulty signal for
// the moderation dashboard.
package leaderboard

import (
	"sort"

	"github.com/reviewly/backend/internal/domain/question"
	"github.com/reviewly/backend/internal/domain/stats"
)

// Entry is one ranked question. Rank is assigned by Build and never
// changes afterwards, whatever display order the caller applies.
type Entry struct {
	QuestionID string            `json:"question_id"`
	Category   question.Category `json:"category"`
	Text       string            `json:"text"`
	Correct    int               `json:"correct"`
	Wrong      int               `json:"wrong"`
	Attempts   int               `json:"attempts"`
	Score      int               `json:"score"`
	Rank       int               `json:"rank"`
}

// Score weighs wrong answers twice as heavily as correct ones: wrongness
// is the actionable signal for moderators.
func Score(correct, wrong int) int {
	return wrong*2 - correct
}

// Build computes the fixed ranking: score descending, then wrong count
// descending, then attempts descending. Rank is the 1-based position in
// that order.
func Build(questions []question.Question, general stats.Set) []Entry {
	entries := make([]Entry, len(questions))
	for i, q := range questions {
		pair := general[q.ID]
		entries[i] = Entry{
			QuestionID: q.ID,
			Category:   q.Category,
			Text:       q.Text,
			Correct:    pair.Correct,
			Wrong:      pair.Wrong,
			Attempts:   pair.Attempts(),
			Score:      Score(pair.Correct, pair.Wrong),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Wrong != entries[j].Wrong {
			return entries[i].Wrong > entries[j].Wrong
		}
		return entries[i].Attempts > entries[j].Attempts
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// SortBy reorders a copy of the entries for display. The rank numbers
// assigned by Build are preserved: display order is a presentation
// concern, not a re-ranking.
func SortBy(entries []Entry, column string, descending bool) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	less := func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank }
	switch column {
	case "correct":
		less = func(i, j int) bool { return sorted[i].Correct < sorted[j].Correct }
	case "wrong":
		less = func(i, j int) bool { return sorted[i].Wrong < sorted[j].Wrong }
	case "attempts":
		less = func(i, j int) bool { return sorted[i].Attempts < sorted[j].Attempts }
	case "score":
		less = func(i, j int) bool { return sorted[i].Score < sorted[j].Score }
	}

	if descending {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}

	sort.SliceStable(sorted, less)
	return sorted
}
