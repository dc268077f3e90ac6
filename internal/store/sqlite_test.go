package store_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewly/backend/internal/domain/mockexam"
	"github.com/reviewly/backend/internal/domain/question"
	"github.com/reviewly/backend/internal/store"
)

func openStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "reviewly_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func mustNormalize(t *testing.T, category question.Category, text string) *question.Question {
	t.Helper()

	q, err := question.Normalize("", category, text, []string{"A", "B", "C"}, 1, "a hint")
	require.NoError(t, err)
	return q
}

func TestQuestionRoundTrip(t *testing.T) {
	s := openStore(t)

	q := mustNormalize(t, question.CategoryVerbal, "Pick the antonym of scarce.")
	require.NoError(t, s.SaveQuestion(q))

	got, err := s.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Text, got.Text)
	assert.Equal(t, q.Options, got.Options)
	assert.Equal(t, q.CorrectIndex, got.CorrectIndex)
	assert.Equal(t, q.Hint, got.Hint)
	assert.Equal(t, question.CategoryVerbal, got.Category)
}

func TestGetQuestion_NotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.GetQuestion("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListQuestions_CategoryFilter(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.SaveQuestion(mustNormalize(t, question.CategoryVerbal, "V1")))
	require.NoError(t, s.SaveQuestion(mustNormalize(t, question.CategoryVerbal, "V2")))
	require.NoError(t, s.SaveQuestion(mustNormalize(t, question.CategoryNumerical, "N1")))

	verbal, err := s.ListQuestions(question.CategoryVerbal)
	require.NoError(t, err)
	assert.Len(t, verbal, 2)

	all, err := s.ListQuestions("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	both, err := s.ListQuestionsByCategories([]question.Category{question.CategoryVerbal, question.CategoryNumerical})
	require.NoError(t, err)
	assert.Len(t, both, 3)
}

func TestUpdateQuestion_LastWriteWins(t *testing.T) {
	s := openStore(t)

	q := mustNormalize(t, question.CategoryVerbal, "Original")
	require.NoError(t, s.SaveQuestion(q))

	q.Text = "Edited"
	q.CorrectIndex = 2
	require.NoError(t, s.UpdateQuestion(q))

	got, err := s.GetQuestion(q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Text)
	assert.Equal(t, 2, got.CorrectIndex)
}

func TestDeleteQuestion(t *testing.T) {
	s := openStore(t)

	q := mustNormalize(t, question.CategoryVerbal, "Doomed")
	require.NoError(t, s.SaveQuestion(q))
	require.NoError(t, s.DeleteQuestion(q.ID))

	_, err := s.GetQuestion(q.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteQuestion(q.ID), store.ErrNotFound)
}

func TestApprovePending_MovesNotCopies(t *testing.T) {
	s := openStore(t)

	q := mustNormalize(t, question.CategoryGeneralInfo, "Who wrote Noli Me Tangere?")
	p := &question.Pending{Question: *q, SubmittedBy: "submitterkey"}
	require.NoError(t, s.SavePending(p))

	published, err := s.ApprovePending(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, published.ID)

	// Now a published question…
	got, err := s.GetQuestion(p.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Text, got.Text)

	// …and gone from the queue.
	pending, err := s.ListPending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApprovePending_NotFound(t *testing.T) {
	s := openStore(t)

	_, err := s.ApprovePending("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRejectPending_Deletes(t *testing.T) {
	s := openStore(t)

	q := mustNormalize(t, question.CategoryGeneralInfo, "Spam question")
	require.NoError(t, s.SavePending(&question.Pending{Question: *q}))
	require.NoError(t, s.RejectPending(q.ID))

	pending, err := s.ListPending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Rejection never publishes.
	_, err = s.GetQuestion(q.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrementStat_BothScopes(t *testing.T) {
	s := openStore(t)

	require.NoError(t, s.IncrementStat("q1", true, "userkey"))
	require.NoError(t, s.IncrementStat("q1", true, "userkey"))
	require.NoError(t, s.IncrementStat("q1", false, "userkey"))
	require.NoError(t, s.IncrementStat("q1", false, "")) // anonymous learner

	general, err := s.GeneralStats()
	require.NoError(t, err)
	assert.Equal(t, 2, general["q1"].Correct)
	assert.Equal(t, 2, general["q1"].Wrong)

	user, err := s.UserStats("userkey")
	require.NoError(t, err)
	assert.Equal(t, 2, user["q1"].Correct)
	assert.Equal(t, 1, user["q1"].Wrong)

	other, err := s.UserStats("otherkey")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestIncrementStat_ConcurrentLearners(t *testing.T) {
	s := openStore(t)

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				assert.NoError(t, s.IncrementStat("contested", true, ""))
			}
		}()
	}
	wg.Wait()

	general, err := s.GeneralStats()
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, general["contested"].Correct)
}

func TestAttemptRoundTrip(t *testing.T) {
	s := openStore(t)

	pool := []question.Question{
		*mustNormalize(t, question.CategoryVerbal, "V1"),
		*mustNormalize(t, question.CategoryVerbal, "V2"),
		*mustNormalize(t, question.CategoryNumerical, "N1"),
	}
	exam, err := mockexam.Generate(pool, 3)
	require.NoError(t, err)

	answers := []int{exam[0].CorrectIndex, -1, (exam[2].CorrectIndex + 1) % 3}
	score, err := mockexam.Grade(exam, answers)
	require.NoError(t, err)

	categories := []question.Category{question.CategoryVerbal, question.CategoryNumerical}
	attempt := mockexam.NewAttempt("examineekey", categories, exam, score, "")
	require.NoError(t, s.SaveAttempt(attempt))

	got, err := s.GetAttempt(attempt.ID)
	require.NoError(t, err)

	// A saved attempt must read back with the same question count, score,
	// categories and per-question selected/correct indices.
	assert.Equal(t, attempt.Total, got.Total)
	assert.Equal(t, attempt.Score, got.Score)
	assert.Equal(t, attempt.Categories, got.Categories)
	require.Len(t, got.Questions, len(exam))
	for i := range exam {
		assert.Equal(t, exam[i].QuestionID, got.Questions[i].QuestionID)
		assert.Equal(t, exam[i].SelectedIndex, got.Questions[i].SelectedIndex)
		assert.Equal(t, exam[i].CorrectIndex, got.Questions[i].CorrectIndex)
	}
	assert.Equal(t, attempt.TakenAt.Unix(), got.TakenAt.Unix())
}

func TestListAttempts_ScopedToUser(t *testing.T) {
	s := openStore(t)

	pool := []question.Question{*mustNormalize(t, question.CategoryVerbal, "V1")}
	exam, err := mockexam.Generate(pool, 1)
	require.NoError(t, err)

	mine := mockexam.NewAttempt("me", nil, exam, 0, "")
	theirs := mockexam.NewAttempt("them", nil, exam, 1, "")
	require.NoError(t, s.SaveAttempt(mine))
	require.NoError(t, s.SaveAttempt(theirs))

	attempts, err := s.ListAttempts("me")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, mine.ID, attempts[0].ID)
}

func TestRetakeReferencesPriorAttempt(t *testing.T) {
	s := openStore(t)

	pool := []question.Question{
		*mustNormalize(t, question.CategoryAnalytical, "A1"),
		*mustNormalize(t, question.CategoryAnalytical, "A2"),
	}
	exam, err := mockexam.Generate(pool, 2)
	require.NoError(t, err)
	score, err := mockexam.Grade(exam, []int{exam[0].CorrectIndex, exam[1].CorrectIndex})
	require.NoError(t, err)

	first := mockexam.NewAttempt("retaker", nil, exam, score, "")
	require.NoError(t, s.SaveAttempt(first))

	retakeQuestions, err := first.RetakeQuestions()
	require.NoError(t, err)
	retakeScore, err := mockexam.Grade(retakeQuestions, []int{-1, -1})
	require.NoError(t, err)

	second := mockexam.NewAttempt("retaker", nil, retakeQuestions, retakeScore, first.ID)
	require.NoError(t, s.SaveAttempt(second))

	got, err := s.GetAttempt(second.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.RetakeOf)
	assert.Equal(t, 0, got.Score)

	// The superseded attempt is untouched.
	prior, err := s.GetAttempt(first.ID)
	require.NoError(t, err)
	assert.Equal(t, score, prior.Score)
	assert.Empty(t, prior.RetakeOf)
}

func TestUsers(t *testing.T) {
	s := openStore(t)

	u := &store.User{
		UserKey:      "juandelacruzexamplecom",
		Email:        "juan.delacruz@example.com",
		PasswordHash: "$2a$10$notarealhashbutlongenough",
		Role:         store.RoleUser,
	}
	require.NoError(t, s.SaveUser(u))

	byEmail, err := s.GetUserByEmail(u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.UserKey, byEmail.UserKey)

	byKey, err := s.GetUser(u.UserKey)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byKey.Email)

	_, err = s.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Duplicate registration is refused by the unique email constraint.
	assert.Error(t, s.SaveUser(u))
}

func TestSettings(t *testing.T) {
	s := openStore(t)

	settings, err := s.GetSettings()
	require.NoError(t, err)
	assert.False(t, settings.AllowOpenSubmission)

	require.NoError(t, s.SaveSettings(&store.Settings{AllowOpenSubmission: true}))

	settings, err = s.GetSettings()
	require.NoError(t, err)
	assert.True(t, settings.AllowOpenSubmission)

	// Last write wins.
	require.NoError(t, s.SaveSettings(&store.Settings{AllowOpenSubmission: false}))
	settings, err = s.GetSettings()
	require.NoError(t, err)
	assert.False(t, settings.AllowOpenSubmission)
}
