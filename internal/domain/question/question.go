package question

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reviewly/backend/internal/id"
)

type Category string

const (
	CategoryGeneralInfo Category = "general_information"
	CategoryVerbal      Category = "verbal_ability"
	CategoryNumerical   Category = "numerical_ability"
	CategoryAnalytical  Category = "analytical_ability"
	CategoryClerical    Category = "clerical_ability"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryGeneralInfo,
		CategoryVerbal,
		CategoryNumerical,
		CategoryAnalytical,
		CategoryClerical,
	}
}

// Valid reports whether c is a member of the fixed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryGeneralInfo, CategoryVerbal, CategoryNumerical,
		CategoryAnalytical, CategoryClerical:
		return true
	}
	return false
}

// Question is a published multiple-choice question.
// Invariant: CorrectIndex ∈ [0, len(Options)).
type Question struct {
	ID           string     `json:"id"`
	Category     Category   `json:"category"`
	Text         string     `json:"text"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correct_index"`
	Hint         string     `json:"hint,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

var (
	ErrEmptyText       = errors.New("question text cannot be empty")
	ErrNoOptions       = errors.New("question needs at least one option")
	ErrInvalidCategory = errors.New("unknown category")
)

// Normalize validates raw input and shapes it into a Question. Option
// strings are trimmed; every option must be non-empty afterwards and the
// correct index must point into the options. A zero id gets a fresh one.
func Normalize(rawID string, category Category, text string, options []string, correctIndex int, hint string) (*Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	trimmed := make([]string, len(options))
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return nil, fmt.Errorf("option %d is empty", i)
		}
		trimmed[i] = opt
	}

	if correctIndex < 0 || correctIndex >= len(trimmed) {
		return nil, fmt.Errorf("correct index %d out of range [0, %d)", correctIndex, len(trimmed))
	}

	qid := rawID
	if qid == "" {
		qid = id.New()
	}

	return &Question{
		ID:           qid,
		Category:     category,
		Text:         text,
		Options:      trimmed,
		CorrectIndex: correctIndex,
		Hint:         strings.TrimSpace(hint),
	}, nil
}

// Pending is a crowd-submitted question awaiting moderation. On approval
// it is moved, not copied, into the published bank; on rejection it is
// deleted.
type Pending struct {
	Question
	SubmittedBy string `json:"submitted_by,omitempty"`
}
