// Package mockexam builds timed-exam style question sets and records
// completed attempts.
package mockexam

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/reviewly/backend/internal/domain/question"
)

// ExamQuestion is a snapshot of one question as it was asked, together
// with the learner's choice. Embedding the full snapshot in the attempt
// is what makes later review and retakes possible even if the published
// question changes or disappears.
type ExamQuestion struct {
	QuestionID    string            `json:"question_id"`
	Category      question.Category `json:"category"`
	Text          string            `json:"text"`
	Options       []string          `json:"options"`
	CorrectIndex  int               `json:"correct_index"`
	SelectedIndex int               `json:"selected_index"` // -1 = unanswered
}

// Attempt is one completed exam run. Created once on submission and
// immutable afterwards; a retake supersedes it with a new attempt that
// references it through RetakeOf.
type Attempt struct {
	ID         string
	UserKey    string
	Total      int
	Score      int
	Categories []question.Category
	TakenAt    time.Time
	Questions  []ExamQuestion
	RetakeOf   string // id of the attempt this one retakes, empty otherwise
}

var ErrEmptyPool = errors.New("no questions available for the selected categories")

// Generate draws size questions from the pool in random order. A pool
// smaller than size yields the whole pool. Selected indices start at -1.
func Generate(pool []question.Question, size int) ([]ExamQuestion, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	if size <= 0 || size > len(pool) {
		size = len(pool)
	}

	shuffled := make([]question.Question, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	exam := make([]ExamQuestion, size)
	for i, q := range shuffled[:size] {
		exam[i] = ExamQuestion{
			QuestionID:    q.ID,
			Category:      q.Category,
			Text:          q.Text,
			Options:       q.Options,
			CorrectIndex:  q.CorrectIndex,
			SelectedIndex: -1,
		}
	}
	return exam, nil
}

// Grade applies the learner's answers to the exam questions and returns
// the achieved score. answers[i] is the selected option index for
// questions[i]; -1 means unanswered. An unanswered or out-of-range
// choice scores as wrong.
func Grade(questions []ExamQuestion, answers []int) (int, error) {
	if len(answers) != len(questions) {
		return 0, fmt.Errorf("got %d answers for %d questions", len(answers), len(questions))
	}

	score := 0
	for i := range questions {
		sel := answers[i]
		if sel < 0 || sel >= len(questions[i].Options) {
			sel = -1
		}
		questions[i].SelectedIndex = sel
		if sel == questions[i].CorrectIndex {
			score++
		}
	}
	return score, nil
}

// NewAttempt assembles the immutable record of a graded exam.
func NewAttempt(userKey string, categories []question.Category, questions []ExamQuestion, score int, retakeOf string) *Attempt {
	return &Attempt{
		ID:         uuid.NewString(),
		UserKey:    userKey,
		Total:      len(questions),
		Score:      score,
		Categories: categories,
		TakenAt:    time.Now().UTC(),
		Questions:  questions,
		RetakeOf:   retakeOf,
	}
}

// RetakeQuestions returns the attempt's exact question list with the
// selections cleared, ready to be answered again.
func (a *Attempt) RetakeQuestions() ([]ExamQuestion, error) {
	if len(a.Questions) == 0 {
		return nil, errors.New("attempt was saved without its questions and cannot be retaken")
	}

	questions := make([]ExamQuestion, len(a.Questions))
	copy(questions, a.Questions)
	for i := range questions {
		questions[i].SelectedIndex = -1
	}
	return questions, nil
}
