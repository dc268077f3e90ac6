package practice

import (
	"errors"
	"fmt"

	"github.com/reviewly/backend/internal/domain/question"
	"github.com/reviewly/backend/internal/id"
)

// State is the position of a session in its answer cycle:
// Idle → QuestionShown → Answered → QuestionShown(next) → …
// Advancing from Answered requires an explicit next request; there is no
// timer. Sessions live in memory only and reset with the process.
type State string

const (
	StateIdle          State = "idle"
	StateQuestionShown State = "question_shown"
	StateAnswered      State = "answered"
)

var (
	ErrNoQuestionShown = errors.New("no question is currently shown")
	ErrAwaitingAnswer  = errors.New("current question has not been answered")
)

// Session is one learner's practice run over a category filter.
type Session struct {
	ID         string
	UserKey    string // empty for anonymous practice
	Categories []question.Category

	State          State
	Current        *question.Question
	LastQuestionID string

	Seen    int
	Correct int
}

func New(userKey string, categories []question.Category) *Session {
	return &Session{
		ID:         id.New(),
		UserKey:    userKey,
		Categories: categories,
		State:      StateIdle,
	}
}

// Show presents the next question. Allowed from Idle and Answered; while
// a question is awaiting its answer the transition is refused.
func (s *Session) Show(q *question.Question) error {
	if s.State == StateQuestionShown {
		return ErrAwaitingAnswer
	}
	s.Current = q
	s.State = StateQuestionShown
	return nil
}

// Answer records the learner's choice for the current question. Only the
// first answer counts: once the session is in Answered, further calls
// are no-ops with recorded=false. The chosen index must point into the
// current question's options.
func (s *Session) Answer(optionIndex int) (correct bool, recorded bool, err error) {
	switch s.State {
	case StateAnswered:
		return false, false, nil
	case StateIdle:
		return false, false, ErrNoQuestionShown
	}

	if optionIndex < 0 || optionIndex >= len(s.Current.Options) {
		return false, false, fmt.Errorf("option index %d out of range [0, %d)", optionIndex, len(s.Current.Options))
	}

	correct = optionIndex == s.Current.CorrectIndex
	s.State = StateAnswered
	s.LastQuestionID = s.Current.ID
	s.Seen++
	if correct {
		s.Correct++
	}
	return correct, true, nil
}
