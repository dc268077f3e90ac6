package api

import (
	"errors"
	"net/http"

	"github.com/reviewly/backend/internal/domain/question"
	"github.com/reviewly/backend/internal/service"
)

type startPracticeRequest struct {
	Categories []string `json:"categories"`
}

type practiceSessionResponse struct {
	SessionID  string              `json:"session_id"`
	Categories []question.Category `json:"categories"`
}

type practiceQuestionResponse struct {
	Done     bool               `json:"done"`
	Question *question.Question `json:"question,omitempty"`
}

type answerRequest struct {
	QuestionID  string `json:"question_id"`
	OptionIndex int    `json:"option_index"`
}

type answerResponse struct {
	Recorded     bool   `json:"recorded"`
	Correct      bool   `json:"correct"`
	CorrectIndex int    `json:"correct_index"`
	Hint         string `json:"hint,omitempty"`
	Seen         int    `json:"seen"`
	CorrectCount int    `json:"correct_count"`
}

// startPractice opens a practice session. Logged-in learners get their
// personal counters blended into the draw; anonymous learners practice
// against the general counters alone.
// @Summary      Start practice
// @Tags         Practice
// @Accept       json
// @Produce      json
// @Param        body  body      startPracticeRequest  true  "Category filter, empty = all"
// @Success      201   {object}  practiceSessionResponse
// @Failure      400   {string}  string
// @Router       /practice/sessions [post]
func (h *Handler) startPractice(w http.ResponseWriter, r *http.Request) {
	var req startPracticeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	categories := make([]question.Category, 0, len(req.Categories))
	for _, raw := range req.Categories {
		c := question.Category(raw)
		if !c.Valid() {
			http.Error(w, "unknown category: "+raw, http.StatusBadRequest)
			return
		}
		categories = append(categories, c)
	}

	userKey := ""
	if session := h.sessionFrom(r); session != nil {
		userKey = session.UserKey
	}

	session, err := h.practice.Start(userKey, categories)
	if err != nil {
		h.logger.Error("failed to start practice session", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, practiceSessionResponse{
		SessionID:  session.ID,
		Categories: session.Categories,
	})
}

// nextPracticeQuestion draws the next weighted question.
// @Summary      Next question
// @Description  Draws the next question, biased toward frequently missed ones. done=true means the pool is exhausted or empty.
// @Tags         Practice
// @Produce      json
// @Param        sessionID  path      string  true  "Session ID"
// @Success      200        {object}  practiceQuestionResponse
// @Failure      404        {string}  string
// @Failure      409        {string}  string  "current question not answered yet"
// @Router       /practice/sessions/{sessionID}/next [post]
func (h *Handler) nextPracticeQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.practice.Next(r.PathValue("sessionID"))
	if err != nil {
		h.handlePracticeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, practiceQuestionResponse{Done: q == nil, Question: q})
}

// answerPracticeQuestion records a choice on the question shown.
// @Summary      Answer question
// @Description  Grades the choice and updates the counters. A repeated answer on the same question is a no-op.
// @Tags         Practice
// @Accept       json
// @Produce      json
// @Param        sessionID  path      string         true  "Session ID"
// @Param        body       body      answerRequest  true  "Chosen option"
// @Success      200        {object}  answerResponse
// @Failure      404        {string}  string
// @Failure      409        {string}  string
// @Router       /practice/sessions/{sessionID}/answers [post]
func (h *Handler) answerPracticeQuestion(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.practice.Answer(r.PathValue("sessionID"), req.QuestionID, req.OptionIndex)
	if err != nil {
		h.handlePracticeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, answerResponse{
		Recorded:     result.Recorded,
		Correct:      result.Correct,
		CorrectIndex: result.CorrectIndex,
		Hint:         result.Hint,
		Seen:         result.Seen,
		CorrectCount: result.CorrectCount,
	})
}

// handlePracticeError distinguishes a missing session from a state
// violation like answering before a question was shown.
func (h *Handler) handlePracticeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusConflict)
}

// endPractice discards the session.
// @Summary      End practice
// @Tags         Practice
// @Param        sessionID  path  string  true  "Session ID"
// @Success      204
// @Router       /practice/sessions/{sessionID} [delete]
func (h *Handler) endPractice(w http.ResponseWriter, r *http.Request) {
	h.practice.End(r.PathValue("sessionID"))
	w.WriteHeader(http.StatusNoContent)
}
