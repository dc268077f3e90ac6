// internal/store/sqlite.go
package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/reviewly/backend/internal/domain/mockexam"
	"github.com/reviewly/backend/internal/domain/question"
	"github.com/reviewly/backend/internal/domain/stats"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    text TEXT NOT NULL,
    options TEXT NOT NULL,
    correct_index INTEGER NOT NULL,
    hint TEXT NOT NULL DEFAULT '',
    created_at INTEGER
);

CREATE TABLE IF NOT EXISTS pending_questions (
    id TEXT PRIMARY KEY,
    category TEXT NOT NULL,
    text TEXT NOT NULL,
    options TEXT NOT NULL,
    correct_index INTEGER NOT NULL,
    hint TEXT NOT NULL DEFAULT '',
    submitted_by TEXT NOT NULL DEFAULT '',
    created_at INTEGER
);

CREATE TABLE IF NOT EXISTS question_stats (
    scope TEXT NOT NULL,
    user_key TEXT NOT NULL DEFAULT '',
    question_id TEXT NOT NULL,
    correct_count INTEGER NOT NULL DEFAULT 0,
    wrong_count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (scope, user_key, question_id)
);

CREATE TABLE IF NOT EXISTS mock_exam_attempts (
    id TEXT PRIMARY KEY,
    user_key TEXT NOT NULL,
    total INTEGER NOT NULL,
    score INTEGER NOT NULL,
    categories TEXT NOT NULL,
    taken_at INTEGER NOT NULL,
    questions TEXT NOT NULL DEFAULT '[]',
    retake_of TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
    user_key TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user'
);

CREATE TABLE IF NOT EXISTS settings (
    name TEXT PRIMARY KEY,
    allow_open_submission INTEGER NOT NULL DEFAULT 0
);
`

const (
	scopeGeneral = "general"
	scopeUser    = "user"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Single writer: serializes counter increments instead of surfacing
	// SQLITE_BUSY to concurrent learners.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Questions
// ============================================================================

func (s *SQLiteStore) SaveQuestion(q *question.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO questions (id, category, text, options, correct_index, hint, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		q.ID, string(q.Category), q.Text, string(options), q.CorrectIndex, q.Hint, unixOrNil(q.CreatedAt),
	)
	return err
}

// UpdateQuestion overwrites the full record. Last write wins.
func (s *SQLiteStore) UpdateQuestion(q *question.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(
		"UPDATE questions SET category = ?, text = ?, options = ?, correct_index = ?, hint = ? WHERE id = ?",
		string(q.Category), q.Text, string(options), q.CorrectIndex, q.Hint, q.ID,
	)
	if err != nil {
		return err
	}
	return requireRows(result)
}

func (s *SQLiteStore) GetQuestion(id string) (*question.Question, error) {
	row := s.db.QueryRow(
		"SELECT id, category, text, options, correct_index, hint, created_at FROM questions WHERE id = ?", id)

	q, err := scanQuestion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuestions returns every published question, optionally filtered to
// one category.
func (s *SQLiteStore) ListQuestions(category question.Category) ([]question.Question, error) {
	query := "SELECT id, category, text, options, correct_index, hint, created_at FROM questions"
	args := []any{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, string(category))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) ListQuestionsByCategories(categories []question.Category) ([]question.Question, error) {
	if len(categories) == 0 {
		return s.ListQuestions("")
	}

	var all []question.Question
	for _, c := range categories {
		qs, err := s.ListQuestions(c)
		if err != nil {
			return nil, err
		}
		all = append(all, qs...)
	}
	return all, nil
}

func (s *SQLiteStore) DeleteQuestion(id string) error {
	result, err := s.db.Exec("DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// ============================================================================
// Pending questions (moderation queue)
// ============================================================================

func (s *SQLiteStore) SavePending(p *question.Pending) error {
	options, err := json.Marshal(p.Options)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO pending_questions (id, category, text, options, correct_index, hint, submitted_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, string(p.Category), p.Text, string(options), p.CorrectIndex, p.Hint, p.SubmittedBy, unixOrNil(p.CreatedAt),
	)
	return err
}

func (s *SQLiteStore) ListPending() ([]question.Pending, error) {
	rows, err := s.db.Query(
		"SELECT id, category, text, options, correct_index, hint, submitted_by, created_at FROM pending_questions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []question.Pending
	for rows.Next() {
		var p question.Pending
		var category, options string
		var createdAt sql.NullInt64
		if err := rows.Scan(&p.ID, &category, &p.Text, &options, &p.CorrectIndex, &p.Hint, &p.SubmittedBy, &createdAt); err != nil {
			return nil, err
		}
		p.Category = question.Category(category)
		if err := json.Unmarshal([]byte(options), &p.Options); err != nil {
			return nil, err
		}
		p.CreatedAt = timeOrNil(createdAt)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// ApprovePending moves a pending question into the published bank. Move,
// not copy: insert and delete commit together or not at all.
func (s *SQLiteStore) ApprovePending(id string) (*question.Question, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		"SELECT id, category, text, options, correct_index, hint, created_at FROM pending_questions WHERE id = ?", id)

	q, err := scanQuestion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	options, err := json.Marshal(q.Options)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(
		"INSERT INTO questions (id, category, text, options, correct_index, hint, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		q.ID, string(q.Category), q.Text, string(options), q.CorrectIndex, q.Hint, unixOrNil(q.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec("DELETE FROM pending_questions WHERE id = ?", id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *SQLiteStore) RejectPending(id string) error {
	result, err := s.db.Exec("DELETE FROM pending_questions WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRows(result)
}

// ============================================================================
// Question stats
// ============================================================================

// IncrementStat bumps exactly one of {correct, wrong} for the question in
// the general scope and, when userKey is non-empty, in that user's scope.
// The increment is read-modify-write inside the database, so concurrent
// learners answering the same question do not lose updates.
func (s *SQLiteStore) IncrementStat(questionID string, correct bool, userKey string) error {
	column := "wrong_count"
	if correct {
		column = "correct_count"
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	upsert := `
		INSERT INTO question_stats (scope, user_key, question_id, ` + column + `)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (scope, user_key, question_id)
		DO UPDATE SET ` + column + ` = ` + column + ` + 1`

	if _, err := tx.Exec(upsert, scopeGeneral, "", questionID); err != nil {
		return err
	}

	if userKey != "" {
		if _, err := tx.Exec(upsert, scopeUser, userKey, questionID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) GeneralStats() (stats.Set, error) {
	return s.statsFor(scopeGeneral, "")
}

func (s *SQLiteStore) UserStats(userKey string) (stats.Set, error) {
	return s.statsFor(scopeUser, userKey)
}

func (s *SQLiteStore) statsFor(scope, userKey string) (stats.Set, error) {
	rows, err := s.db.Query(
		"SELECT question_id, correct_count, wrong_count FROM question_stats WHERE scope = ? AND user_key = ?",
		scope, userKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := stats.Set{}
	for rows.Next() {
		var questionID string
		var pair stats.Pair
		if err := rows.Scan(&questionID, &pair.Correct, &pair.Wrong); err != nil {
			return nil, err
		}
		set[questionID] = pair
	}
	return set, rows.Err()
}

// ============================================================================
// Mock exam attempts
// ============================================================================

func (s *SQLiteStore) SaveAttempt(a *mockexam.Attempt) error {
	categories, err := json.Marshal(a.Categories)
	if err != nil {
		return err
	}
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		"INSERT INTO mock_exam_attempts (id, user_key, total, score, categories, taken_at, questions, retake_of) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.UserKey, a.Total, a.Score, string(categories), a.TakenAt.Unix(), string(questions), a.RetakeOf,
	)
	return err
}

func (s *SQLiteStore) GetAttempt(id string) (*mockexam.Attempt, error) {
	row := s.db.QueryRow(
		"SELECT id, user_key, total, score, categories, taken_at, questions, retake_of FROM mock_exam_attempts WHERE id = ?", id)

	a, err := scanAttempt(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAttempts returns a user's attempt history, newest first.
func (s *SQLiteStore) ListAttempts(userKey string) ([]mockexam.Attempt, error) {
	rows, err := s.db.Query(
		"SELECT id, user_key, total, score, categories, taken_at, questions, retake_of FROM mock_exam_attempts WHERE user_key = ? ORDER BY taken_at DESC, id",
		userKey,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []mockexam.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows.Scan)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// ============================================================================
// Users
// ============================================================================

func (s *SQLiteStore) SaveUser(u *User) error {
	_, err := s.db.Exec(
		"INSERT INTO users (user_key, email, password_hash, role) VALUES (?, ?, ?, ?)",
		u.UserKey, u.Email, u.PasswordHash, u.Role,
	)
	return err
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT user_key, email, password_hash, role FROM users WHERE email = ?", email,
	).Scan(&u.UserKey, &u.Email, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) GetUser(userKey string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		"SELECT user_key, email, password_hash, role FROM users WHERE user_key = ?", userKey,
	).Scan(&u.UserKey, &u.Email, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ============================================================================
// Settings
// ============================================================================

// GetSettings returns the shared toggle record; a missing row reads as
// all defaults.
func (s *SQLiteStore) GetSettings() (*Settings, error) {
	var allowOpen int
	err := s.db.QueryRow(
		"SELECT allow_open_submission FROM settings WHERE name = 'common'",
	).Scan(&allowOpen)
	if err == sql.ErrNoRows {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Settings{AllowOpenSubmission: allowOpen != 0}, nil
}

func (s *SQLiteStore) SaveSettings(settings *Settings) error {
	allowOpen := 0
	if settings.AllowOpenSubmission {
		allowOpen = 1
	}

	_, err := s.db.Exec(`
		INSERT INTO settings (name, allow_open_submission) VALUES ('common', ?)
		ON CONFLICT (name) DO UPDATE SET allow_open_submission = excluded.allow_open_submission`,
		allowOpen,
	)
	return err
}

// ============================================================================
// Scan helpers
// ============================================================================

func scanQuestion(scan func(...any) error) (*question.Question, error) {
	var q question.Question
	var category, options string
	var createdAt sql.NullInt64

	if err := scan(&q.ID, &category, &q.Text, &options, &q.CorrectIndex, &q.Hint, &createdAt); err != nil {
		return nil, err
	}
	q.Category = question.Category(category)
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, err
	}
	q.CreatedAt = timeOrNil(createdAt)
	return &q, nil
}

func scanAttempt(scan func(...any) error) (*mockexam.Attempt, error) {
	var a mockexam.Attempt
	var categories, questions string
	var takenAt int64

	if err := scan(&a.ID, &a.UserKey, &a.Total, &a.Score, &categories, &takenAt, &questions, &a.RetakeOf); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(categories), &a.Categories); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(questions), &a.Questions); err != nil {
		return nil, err
	}
	a.TakenAt = time.Unix(takenAt, 0).UTC()
	return &a, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func requireRows(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
