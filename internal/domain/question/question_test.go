package question_test

import (
	"testing"

	"github.com/reviewly/backend/internal/domain/question"
)

func TestNormalize(t *testing.T) {
	q, err := question.Normalize("", question.CategoryVerbal, "  Pick the synonym of rapid.  ",
		[]string{" quick ", "slow", "dull"}, 0, " speed ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.ID == "" {
		t.Error("expected a generated id")
	}
	if q.Text != "Pick the synonym of rapid." {
		t.Errorf("expected trimmed text, got %q", q.Text)
	}
	if q.Options[0] != "quick" {
		t.Errorf("expected trimmed option, got %q", q.Options[0])
	}
	if q.Hint != "speed" {
		t.Errorf("expected trimmed hint, got %q", q.Hint)
	}
}

func TestNormalize_KeepsGivenID(t *testing.T) {
	q, err := question.Normalize("abc123", question.CategoryGeneralInfo, "Q?", []string{"A"}, 0, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != "abc123" {
		t.Errorf("expected id abc123, got %q", q.ID)
	}
}

func TestNormalize_EmptyText(t *testing.T) {
	_, err := question.Normalize("", question.CategoryVerbal, "   ", []string{"A"}, 0, "")
	if err == nil {
		t.Error("expected error for empty text, got nil")
	}
}

func TestNormalize_NoOptions(t *testing.T) {
	_, err := question.Normalize("", question.CategoryVerbal, "Q?", nil, 0, "")
	if err == nil {
		t.Error("expected error for missing options, got nil")
	}
}

func TestNormalize_EmptyOption(t *testing.T) {
	_, err := question.Normalize("", question.CategoryVerbal, "Q?", []string{"A", "  "}, 0, "")
	if err == nil {
		t.Error("expected error for blank option, got nil")
	}
}

func TestNormalize_CorrectIndexOutOfRange(t *testing.T) {
	for _, idx := range []int{-1, 2, 10} {
		_, err := question.Normalize("", question.CategoryVerbal, "Q?", []string{"A", "B"}, idx, "")
		if err == nil {
			t.Errorf("expected error for correct index %d, got nil", idx)
		}
	}
}

func TestNormalize_UnknownCategory(t *testing.T) {
	_, err := question.Normalize("", question.Category("history"), "Q?", []string{"A"}, 0, "")
	if err == nil {
		t.Error("expected error for unknown category, got nil")
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range question.Categories() {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if question.Category("bogus").Valid() {
		t.Error("expected bogus category to be invalid")
	}
}
