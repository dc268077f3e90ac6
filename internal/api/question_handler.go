package api

import (
	"net/http"

	"github.com/reviewly/backend/internal/auth"
	"github.com/reviewly/backend/internal/domain/question"
)

type questionRequest struct {
	Category     string   `json:"category"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Hint         string   `json:"hint"`
}

// listCategories returns the fixed category enumeration.
// @Summary      List categories
// @Tags         Questions
// @Produce      json
// @Success      200  {array}  string
// @Router       /categories [get]
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, question.Categories())
}

// listQuestions lists published questions, optionally filtered.
// @Summary      List questions
// @Tags         Questions
// @Produce      json
// @Param        category  query     string  false  "Category filter"
// @Success      200       {array}   question.Question
// @Failure      400       {string}  string  "unknown category"
// @Router       /questions [get]
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	category := question.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}

	questions, err := h.store.ListQuestions(category)
	if h.handleStoreError(w, err, "questions") {
		return
	}
	if questions == nil {
		questions = []question.Question{}
	}
	respondJSON(w, http.StatusOK, questions)
}

// getQuestion returns one published question.
// @Summary      Get a question
// @Tags         Questions
// @Produce      json
// @Param        questionID  path      string  true  "Question ID"
// @Success      200         {object}  question.Question
// @Failure      404         {string}  string
// @Router       /questions/{questionID} [get]
func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.store.GetQuestion(r.PathValue("questionID"))
	if h.handleStoreError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// createQuestion publishes a question directly, bypassing moderation.
// @Summary      Create a question
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      questionRequest  true  "Question"
// @Success      201   {object}  question.Question
// @Failure      400   {string}  string
// @Failure      403   {string}  string  "admin role required"
// @Router       /questions [post]
func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request, _ *auth.Session) {
	var req questionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, err := question.Normalize("", question.Category(req.Category), req.Text, req.Options, req.CorrectIndex, req.Hint)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveQuestion(q); h.handleStoreError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

// updateQuestion replaces a published question.
// @Summary      Update a question
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        questionID  path      string           true  "Question ID"
// @Param        body        body      questionRequest  true  "Question"
// @Success      200         {object}  question.Question
// @Failure      400         {string}  string
// @Failure      404         {string}  string
// @Router       /questions/{questionID} [put]
func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request, _ *auth.Session) {
	var req questionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, err := question.Normalize(r.PathValue("questionID"), question.Category(req.Category), req.Text, req.Options, req.CorrectIndex, req.Hint)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateQuestion(q); h.handleStoreError(w, err, "question") {
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// deleteQuestion removes a question from the bank. Its answer counters
// stay behind and simply stop being referenced.
// @Summary      Delete a question
// @Tags         Questions
// @Security     BearerAuth
// @Param        questionID  path  string  true  "Question ID"
// @Success      204
// @Failure      404  {string}  string
// @Router       /questions/{questionID} [delete]
func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request, _ *auth.Session) {
	if err := h.store.DeleteQuestion(r.PathValue("questionID")); h.handleStoreError(w, err, "question") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// submitQuestion queues a learner-submitted question for moderation.
// Available only while the open submission toggle is on.
// @Summary      Submit a question
// @Description  Queue a question for admin review. Disabled unless open submission is on.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        body  body      questionRequest  true  "Question"
// @Success      202   {object}  question.Pending
// @Failure      400   {string}  string
// @Failure      403   {string}  string  "open submission is disabled"
// @Router       /questions/submissions [post]
func (h *Handler) submitQuestion(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings()
	if h.handleStoreError(w, err, "settings") {
		return
	}
	if !settings.AllowOpenSubmission {
		http.Error(w, "open submission is disabled", http.StatusForbidden)
		return
	}

	var req questionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	q, err := question.Normalize("", question.Category(req.Category), req.Text, req.Options, req.CorrectIndex, req.Hint)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	submittedBy := "anonymous"
	if session := h.sessionFrom(r); session != nil {
		submittedBy = session.Email
	}

	pending := &question.Pending{Question: *q, SubmittedBy: submittedBy}
	if err := h.store.SavePending(pending); h.handleStoreError(w, err, "pending question") {
		return
	}
	respondJSON(w, http.StatusAccepted, pending)
}
