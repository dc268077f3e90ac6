package api

import (
	"net/http"

	"github.com/reviewly/backend/internal/domain/leaderboard"
	"github.com/reviewly/backend/internal/domain/question"
)

// leaderboard ranks every published question by community difficulty.
// sort and dir only reorder the display; ranks stay as computed.
// @Summary      Difficulty leaderboard
// @Tags         Leaderboard
// @Produce      json
// @Param        sort  query     string  false  "Display column: rank, correct, wrong, attempts, score"
// @Param        dir   query     string  false  "asc or desc (default desc)"
// @Success      200   {array}   leaderboard.Entry
// @Router       /leaderboard [get]
func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	questions, err := h.store.ListQuestions(question.Category(""))
	if h.handleStoreError(w, err, "questions") {
		return
	}
	general, err := h.store.GeneralStats()
	if h.handleStoreError(w, err, "stats") {
		return
	}

	entries := leaderboard.Build(questions, general)

	if column := r.URL.Query().Get("sort"); column != "" {
		descending := r.URL.Query().Get("dir") != "asc"
		entries = leaderboard.SortBy(entries, column, descending)
	}

	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
