package api

import "net/http"

// RegisterRoutes attaches every API route to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Auth.
	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("POST /auth/logout", h.requireAuth(h.logout))
	mux.HandleFunc("GET /auth/me", h.requireAuth(h.me))

	// Question bank.
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("GET /questions", h.listQuestions)
	mux.HandleFunc("GET /questions/{questionID}", h.getQuestion)
	mux.HandleFunc("POST /questions", h.requireAdmin(h.createQuestion))
	mux.HandleFunc("PUT /questions/{questionID}", h.requireAdmin(h.updateQuestion))
	mux.HandleFunc("DELETE /questions/{questionID}", h.requireAdmin(h.deleteQuestion))
	mux.HandleFunc("POST /questions/submissions", h.submitQuestion)

	// Practice.
	mux.HandleFunc("POST /practice/sessions", h.startPractice)
	mux.HandleFunc("POST /practice/sessions/{sessionID}/next", h.nextPracticeQuestion)
	mux.HandleFunc("POST /practice/sessions/{sessionID}/answers", h.answerPracticeQuestion)
	mux.HandleFunc("DELETE /practice/sessions/{sessionID}", h.endPractice)

	// Mock exams.
	mux.HandleFunc("POST /exams", h.generateExam)
	mux.HandleFunc("POST /exams/attempts", h.requireAuth(h.submitExam))
	mux.HandleFunc("GET /exams/attempts", h.requireAuth(h.listExamAttempts))
	mux.HandleFunc("GET /exams/attempts/{attemptID}", h.requireAuth(h.getExamAttempt))
	mux.HandleFunc("POST /exams/attempts/{attemptID}/retake", h.requireAuth(h.retakeExam))

	// Leaderboard.
	mux.HandleFunc("GET /leaderboard", h.leaderboard)

	// Moderation and settings.
	mux.HandleFunc("GET /admin/pending-questions", h.requireAdmin(h.listPending))
	mux.HandleFunc("POST /admin/pending-questions/{questionID}/approve", h.requireAdmin(h.approvePending))
	mux.HandleFunc("DELETE /admin/pending-questions/{questionID}", h.requireAdmin(h.rejectPending))
	mux.HandleFunc("GET /settings", h.getSettings)
	mux.HandleFunc("PUT /settings", h.requireAdmin(h.updateSettings))
}
