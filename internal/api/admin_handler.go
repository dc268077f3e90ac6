package api

import (
	"net/http"

	"github.com/reviewly/backend/internal/auth"
	"github.com/reviewly/backend/internal/domain/question"
	"github.com/reviewly/backend/internal/store"
)

// listPending returns the moderation queue.
// @Summary      List pending questions
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   question.Pending
// @Failure      403  {string}  string
// @Router       /admin/pending-questions [get]
func (h *Handler) listPending(w http.ResponseWriter, r *http.Request, _ *auth.Session) {
	pending, err := h.store.ListPending()
	if h.handleStoreError(w, err, "pending questions") {
		return
	}
	if pending == nil {
		pending = []question.Pending{}
	}
	respondJSON(w, http.StatusOK, pending)
}

// approvePending publishes a submission: it moves from the pending
// queue into the question bank in one transaction.
// @Summary      Approve a pending question
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        questionID  path      string  true  "Pending question ID"
// @Success      200         {object}  question.Question
// @Failure      404         {string}  string
// @Router       /admin/pending-questions/{questionID}/approve [post]
func (h *Handler) approvePending(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	q, err := h.store.ApprovePending(r.PathValue("questionID"))
	if h.handleStoreError(w, err, "pending question") {
		return
	}
	h.logger.Info("pending question approved", "question_id", q.ID, "admin", session.Email)
	respondJSON(w, http.StatusOK, q)
}

// rejectPending deletes a submission without publishing it.
// @Summary      Reject a pending question
// @Tags         Admin
// @Security     BearerAuth
// @Param        questionID  path  string  true  "Pending question ID"
// @Success      204
// @Failure      404  {string}  string
// @Router       /admin/pending-questions/{questionID} [delete]
func (h *Handler) rejectPending(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	id := r.PathValue("questionID")
	if err := h.store.RejectPending(id); h.handleStoreError(w, err, "pending question") {
		return
	}
	h.logger.Info("pending question rejected", "question_id", id, "admin", session.Email)
	w.WriteHeader(http.StatusNoContent)
}

// getSettings is public: the client needs the submission toggle to
// decide whether to show the submit form.
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  store.Settings
// @Router       /settings [get]
func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings()
	if h.handleStoreError(w, err, "settings") {
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// updateSettings overwrites the shared settings record.
// @Summary      Update settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      store.Settings  true  "Settings"
// @Success      200   {object}  store.Settings
// @Failure      403   {string}  string
// @Router       /settings [put]
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	var settings store.Settings
	if !decodeJSON(w, r, &settings) {
		return
	}

	if err := h.store.SaveSettings(&settings); h.handleStoreError(w, err, "settings") {
		return
	}
	h.logger.Info("settings updated", "allow_open_submission", settings.AllowOpenSubmission, "admin", session.Email)
	respondJSON(w, http.StatusOK, settings)
}
