// Package service orchestrates domain logic between the HTTP handlers
// and the store.
package service

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/reviewly/backend/internal/domain/practice"
	"github.com/reviewly/backend/internal/domain/question"
	"github.com/reviewly/backend/internal/domain/sampler"
	"github.com/reviewly/backend/internal/domain/stats"
	"github.com/reviewly/backend/internal/store"
	"github.com/reviewly/backend/internal/worker"
)

var ErrSessionNotFound = errors.New("practice session not found")

// practiceRun is one live session plus the data the sampler needs: the
// candidate pool and a stats mirror that is bumped optimistically so the
// next draw sees fresh counts without a re-fetch.
type practiceRun struct {
	session *practice.Session
	pool    []question.Question
	user    stats.Set
	general stats.Set
}

// PracticeService owns all in-memory practice sessions and persists
// answer outcomes through a write queue. Sessions reset with the
// process; only the counters survive.
type PracticeService struct {
	store  *store.SQLiteStore
	logger *slog.Logger
	writes *worker.Pool

	mu   sync.Mutex
	runs map[string]*practiceRun
}

func NewPracticeService(s *store.SQLiteStore, logger *slog.Logger) *PracticeService {
	svc := &PracticeService{
		store:  s,
		logger: logger,
		writes: worker.NewPool(2, 64),
		runs:   make(map[string]*practiceRun),
	}

	// Stats are advisory: a failed increment is logged and the learner
	// never hears about it.
	go func() {
		for result := range svc.writes.Results() {
			if result.Err != nil {
				logger.Error("failed to persist answer stats", "question_id", result.JobID, "error", result.Err)
			}
		}
	}()

	return svc
}

// Close drains pending stat writes.
func (svc *PracticeService) Close() {
	svc.writes.Close()
}

// Start loads the candidate pool and both stats scopes — three
// independent reads joined before the session is usable — and registers
// a fresh session. An empty pool is allowed: the session just has no
// questions to offer.
func (svc *PracticeService) Start(userKey string, categories []question.Category) (*practice.Session, error) {
	var (
		wg         sync.WaitGroup
		pool       []question.Question
		general    stats.Set
		user       stats.Set
		poolErr    error
		generalErr error
		userErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pool, poolErr = svc.store.ListQuestionsByCategories(categories)
	}()
	go func() {
		defer wg.Done()
		general, generalErr = svc.store.GeneralStats()
	}()
	if userKey != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, userErr = svc.store.UserStats(userKey)
		}()
	}
	wg.Wait()

	if err := errors.Join(poolErr, generalErr, userErr); err != nil {
		return nil, err
	}
	if user == nil {
		user = stats.Set{}
	}
	if general == nil {
		general = stats.Set{}
	}

	session := practice.New(userKey, categories)

	svc.mu.Lock()
	svc.runs[session.ID] = &practiceRun{
		session: session,
		pool:    pool,
		user:    user,
		general: general,
	}
	svc.mu.Unlock()

	return session, nil
}

// Next draws the next question, biased toward the learner's weak spots
// and never immediately repeating the one just answered. A nil question
// with nil error means the pool is empty for this filter.
func (svc *PracticeService) Next(sessionID string) (*question.Question, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	run, ok := svc.runs[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	weightOf := func(id string) float64 {
		return stats.Weight(run.user[id], run.general[id])
	}

	q := sampler.Pick(run.pool, weightOf, run.session.LastQuestionID)
	if q == nil {
		return nil, nil
	}

	if err := run.session.Show(q); err != nil {
		return nil, err
	}
	return q, nil
}

// AnswerResult is the immediate feedback for an answered question.
type AnswerResult struct {
	Recorded     bool
	Correct      bool
	CorrectIndex int
	Hint         string
	Seen         int
	CorrectCount int
}

// Answer records the learner's choice on the current question, mirrors
// the counters in memory and queues the durable increment.
func (svc *PracticeService) Answer(sessionID, questionID string, optionIndex int) (*AnswerResult, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	run, ok := svc.runs[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	current := run.session.Current
	if current == nil || current.ID != questionID {
		return nil, errors.New("question is not the one currently shown")
	}

	correct, recorded, err := run.session.Answer(optionIndex)
	if err != nil {
		return nil, err
	}

	result := &AnswerResult{
		Recorded:     recorded,
		Correct:      correct,
		CorrectIndex: current.CorrectIndex,
		Hint:         current.Hint,
		Seen:         run.session.Seen,
		CorrectCount: run.session.Correct,
	}
	if !recorded {
		return result, nil
	}

	run.general.Bump(questionID, correct)
	if run.session.UserKey != "" {
		run.user.Bump(questionID, correct)
	}

	userKey := run.session.UserKey
	svc.writes.Submit(questionID, func() error {
		return svc.store.IncrementStat(questionID, correct, userKey)
	})

	return result, nil
}

// End removes the session. Already-queued stat writes still land.
func (svc *PracticeService) End(sessionID string) {
	svc.mu.Lock()
	delete(svc.runs, sessionID)
	svc.mu.Unlock()
}
