package practice_test

import (
	"errors"
	"testing"

	"github.com/reviewly/backend/internal/domain/practice"
	"github.com/reviewly/backend/internal/domain/question"
)

func sampleQuestion(qid string) *question.Question {
	return &question.Question{
		ID:           qid,
		Category:     question.CategoryNumerical,
		Text:         "What is 7 times 8?",
		Options:      []string{"54", "56", "58"},
		CorrectIndex: 1,
	}
}

func TestNew_StartsIdle(t *testing.T) {
	s := practice.New("juandelacruz", []question.Category{question.CategoryNumerical})

	if s.State != practice.StateIdle {
		t.Errorf("expected idle state, got %s", s.State)
	}
	if s.ID == "" {
		t.Error("expected a session id")
	}
}

func TestAnswer_WithoutQuestion(t *testing.T) {
	s := practice.New("", nil)

	_, _, err := s.Answer(0)
	if !errors.Is(err, practice.ErrNoQuestionShown) {
		t.Errorf("expected ErrNoQuestionShown, got %v", err)
	}
}

func TestShowAnswerCycle(t *testing.T) {
	s := practice.New("", nil)

	if err := s.Show(sampleQuestion("q1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State != practice.StateQuestionShown {
		t.Fatalf("expected question_shown, got %s", s.State)
	}

	correct, recorded, err := s.Answer(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !recorded || !correct {
		t.Errorf("expected recorded correct answer, got recorded=%v correct=%v", recorded, correct)
	}
	if s.State != practice.StateAnswered {
		t.Errorf("expected answered state, got %s", s.State)
	}
	if s.LastQuestionID != "q1" {
		t.Errorf("expected last question q1, got %q", s.LastQuestionID)
	}
	if s.Seen != 1 || s.Correct != 1 {
		t.Errorf("expected seen=1 correct=1, got seen=%d correct=%d", s.Seen, s.Correct)
	}
}

func TestAnswer_RepeatIsNoOp(t *testing.T) {
	s := practice.New("", nil)
	s.Show(sampleQuestion("q1"))

	s.Answer(0) // wrong
	_, recorded, err := s.Answer(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recorded {
		t.Error("expected second answer to be a no-op")
	}
	if s.Seen != 1 || s.Correct != 0 {
		t.Errorf("expected counters untouched, got seen=%d correct=%d", s.Seen, s.Correct)
	}
}

func TestAnswer_OptionOutOfRange(t *testing.T) {
	s := practice.New("", nil)
	s.Show(sampleQuestion("q1"))

	if _, _, err := s.Answer(5); err == nil {
		t.Error("expected error for out-of-range option")
	}
	// A bad click must not consume the question.
	if s.State != practice.StateQuestionShown {
		t.Errorf("expected question_shown, got %s", s.State)
	}
}

func TestShow_RefusedWhileAwaitingAnswer(t *testing.T) {
	s := practice.New("", nil)
	s.Show(sampleQuestion("q1"))

	err := s.Show(sampleQuestion("q2"))
	if !errors.Is(err, practice.ErrAwaitingAnswer) {
		t.Errorf("expected ErrAwaitingAnswer, got %v", err)
	}
}

func TestShow_NextAfterAnswered(t *testing.T) {
	s := practice.New("", nil)
	s.Show(sampleQuestion("q1"))
	s.Answer(1)

	if err := s.Show(sampleQuestion("q2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Current.ID != "q2" {
		t.Errorf("expected current question q2, got %q", s.Current.ID)
	}
	if s.LastQuestionID != "q1" {
		t.Errorf("expected last question q1, got %q", s.LastQuestionID)
	}
}
