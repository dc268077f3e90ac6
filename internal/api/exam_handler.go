package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/reviewly/backend/internal/auth"
	"github.com/reviewly/backend/internal/domain/mockexam"
	"github.com/reviewly/backend/internal/domain/question"
)

type generateExamRequest struct {
	Categories []string `json:"categories"`
	Size       int      `json:"size"`
}

type examResponse struct {
	Categories []question.Category     `json:"categories"`
	Questions  []mockexam.ExamQuestion `json:"questions"`
}

type submitExamRequest struct {
	Categories []string                `json:"categories"`
	Questions  []mockexam.ExamQuestion `json:"questions"`
	Answers    []int                   `json:"answers"`
	RetakeOf   string                  `json:"retake_of,omitempty"`
}

type attemptResponse struct {
	ID         string                  `json:"id"`
	Total      int                     `json:"total"`
	Score      int                     `json:"score"`
	Categories []question.Category     `json:"categories"`
	TakenAt    time.Time               `json:"taken_at"`
	Questions  []mockexam.ExamQuestion `json:"questions,omitempty"`
	RetakeOf   string                  `json:"retake_of,omitempty"`
}

func toAttemptResponse(a *mockexam.Attempt, includeQuestions bool) attemptResponse {
	resp := attemptResponse{
		ID:         a.ID,
		Total:      a.Total,
		Score:      a.Score,
		Categories: a.Categories,
		TakenAt:    a.TakenAt,
		RetakeOf:   a.RetakeOf,
	}
	if includeQuestions {
		resp.Questions = a.Questions
	}
	return resp
}

func parseCategories(raw []string) ([]question.Category, error) {
	categories := make([]question.Category, 0, len(raw))
	for _, r := range raw {
		c := question.Category(r)
		if !c.Valid() {
			return nil, errors.New("unknown category: " + r)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// generateExam draws a fresh randomized question set. The snapshot is
// returned to the client, which sends it back on submission.
// @Summary      Generate a mock exam
// @Tags         Exams
// @Accept       json
// @Produce      json
// @Param        body  body      generateExamRequest  true  "Categories and size, size<=0 = whole pool"
// @Success      200   {object}  examResponse
// @Failure      400   {string}  string
// @Failure      422   {string}  string  "no questions for the selected categories"
// @Router       /exams [post]
func (h *Handler) generateExam(w http.ResponseWriter, r *http.Request) {
	var req generateExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	categories, err := parseCategories(req.Categories)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pool, err := h.store.ListQuestionsByCategories(categories)
	if h.handleStoreError(w, err, "questions") {
		return
	}

	questions, err := mockexam.Generate(pool, req.Size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	respondJSON(w, http.StatusOK, examResponse{Categories: categories, Questions: questions})
}

// submitExam grades the answers against the submitted snapshot and
// stores the attempt.
// @Summary      Submit an exam
// @Tags         Exams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitExamRequest  true  "Question snapshot and answers"
// @Success      201   {object}  attemptResponse
// @Failure      400   {string}  string
// @Failure      401   {string}  string
// @Router       /exams/attempts [post]
func (h *Handler) submitExam(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	var req submitExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Questions) == 0 {
		http.Error(w, "an exam needs at least one question", http.StatusBadRequest)
		return
	}

	categories, err := parseCategories(req.Categories)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.RetakeOf != "" {
		prior, err := h.store.GetAttempt(req.RetakeOf)
		if h.handleStoreError(w, err, "attempt") {
			return
		}
		if prior.UserKey != session.UserKey {
			http.Error(w, "attempt belongs to another user", http.StatusForbidden)
			return
		}
	}

	score, err := mockexam.Grade(req.Questions, req.Answers)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	attempt := mockexam.NewAttempt(session.UserKey, categories, req.Questions, score, req.RetakeOf)
	if err := h.store.SaveAttempt(attempt); h.handleStoreError(w, err, "attempt") {
		return
	}

	respondJSON(w, http.StatusCreated, toAttemptResponse(attempt, true))
}

// listExamAttempts returns the caller's exam history, newest first.
// @Summary      Exam history
// @Tags         Exams
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   attemptResponse
// @Failure      401  {string}  string
// @Router       /exams/attempts [get]
func (h *Handler) listExamAttempts(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	attempts, err := h.store.ListAttempts(session.UserKey)
	if h.handleStoreError(w, err, "attempts") {
		return
	}

	// History is a summary view; the per-question snapshots stay behind
	// the single-attempt endpoint.
	responses := make([]attemptResponse, len(attempts))
	for i := range attempts {
		responses[i] = toAttemptResponse(&attempts[i], false)
	}
	respondJSON(w, http.StatusOK, responses)
}

// getExamAttempt returns one attempt with its question snapshots.
// @Summary      Get an attempt
// @Tags         Exams
// @Produce      json
// @Security     BearerAuth
// @Param        attemptID  path      string  true  "Attempt ID"
// @Success      200        {object}  attemptResponse
// @Failure      403        {string}  string
// @Failure      404        {string}  string
// @Router       /exams/attempts/{attemptID} [get]
func (h *Handler) getExamAttempt(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	attempt, err := h.store.GetAttempt(r.PathValue("attemptID"))
	if h.handleStoreError(w, err, "attempt") {
		return
	}
	if attempt.UserKey != session.UserKey {
		http.Error(w, "attempt belongs to another user", http.StatusForbidden)
		return
	}
	respondJSON(w, http.StatusOK, toAttemptResponse(attempt, true))
}

// retakeExam hands back the exact question set of a prior attempt with
// the selections cleared.
// @Summary      Retake an exam
// @Description  Returns the attempt's question set with selections cleared. Submitting it creates a new attempt referencing this one.
// @Tags         Exams
// @Produce      json
// @Security     BearerAuth
// @Param        attemptID  path      string  true  "Attempt ID"
// @Success      200        {object}  examResponse
// @Failure      403        {string}  string
// @Failure      404        {string}  string
// @Router       /exams/attempts/{attemptID}/retake [post]
func (h *Handler) retakeExam(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	attempt, err := h.store.GetAttempt(r.PathValue("attemptID"))
	if h.handleStoreError(w, err, "attempt") {
		return
	}
	if attempt.UserKey != session.UserKey {
		http.Error(w, "attempt belongs to another user", http.StatusForbidden)
		return
	}

	questions, err := attempt.RetakeQuestions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		RetakeOf   string                  `json:"retake_of"`
		Categories []question.Category     `json:"categories"`
		Questions  []mockexam.ExamQuestion `json:"questions"`
	}{
		RetakeOf:   attempt.ID,
		Categories: attempt.Categories,
		Questions:  questions,
	})
}
