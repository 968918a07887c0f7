package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Therealjustindude/stack-guide/internal/feedback"
)

const feedbackListLimit = 100

// feedbackHandler serves the feedback endpoints. Only registered when a
// feedback store (and therefore a database) is configured.
type feedbackHandler struct {
	store  *feedback.Store
	logger *slog.Logger
}

// feedbackRequest is the body of POST /api/feedback.
type feedbackRequest struct {
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	Platform string `json:"platform"`
}

// create handles POST /api/feedback.
func (h *feedbackHandler) create(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	entry := &feedback.Entry{
		Rating:   req.Rating,
		Comment:  req.Comment,
		Platform: req.Platform,
	}

	if err := h.store.Add(r.Context(), entry); err != nil {
		switch {
		case errors.Is(err, feedback.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		case errors.Is(err, feedback.ErrCommentTooLong):
			writeError(w, http.StatusBadRequest, "Comment is too long")
		default:
			h.logger.Error("storing feedback failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to store feedback")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": entry.ID.String()})
}

// list handles GET /api/feedback: the most recent entries, newest first.
func (h *feedbackHandler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context(), feedbackListLimit)
	if err != nil {
		h.logger.Error("listing feedback failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list feedback")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"feedback": entries})
}
