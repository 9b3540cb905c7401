package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/auth"
	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/service"
)

// CommentHandler serves comment endpoints.
type CommentHandler struct {
	comments *service.CommentService
	logger   zerolog.Logger
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments *service.CommentService, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		logger:   logger.With().Str("component", "comment_handler").Logger(),
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

// ListByVideo handles GET /api/comments/video/{videoId}.
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "videoId", domain.ErrVideoNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	comments, err := h.comments.ListByVideo(r.Context(), videoID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// Create handles POST /api/comments/video/{videoId}.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	videoID, err := pathID(r, "videoId", domain.ErrVideoNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	comment, err := h.comments.Create(r.Context(), identity.UserID, videoID, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// Update handles PATCH /api/comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	id, err := pathID(r, "id", domain.ErrCommentNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	comment, err := h.comments.Update(r.Context(), identity.UserID, id, req.Text)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	id, err := pathID(r, "id", domain.ErrCommentNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.comments.Delete(r.Context(), identity.UserID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeMessage(w, http.StatusOK, "Comment deleted")
}
