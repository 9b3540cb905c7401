package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/auth"
	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/service"
)

// VideoHandler serves video metadata, views and reactions.
type VideoHandler struct {
	videos *service.VideoService
	logger zerolog.Logger
}

// NewVideoHandler creates a new video handler.
func NewVideoHandler(videos *service.VideoService, logger zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		videos: videos,
		logger: logger.With().Str("component", "video_handler").Logger(),
	}
}

type createVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	VideoURL     string `json:"videoUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ChannelID    int64  `json:"channelId"`
	Category     string `json:"category"`
}

// updateVideoRequest carries the allow-listed mutable fields. The video
// URL, channel, uploader, views and reactions are not editable.
type updateVideoRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Category     *string `json:"category"`
}

type videoListResponse struct {
	Videos []*domain.Video `json:"videos"`
	Total  int64           `json:"total"`
}

type viewsResponse struct {
	Views int64 `json:"views"`
}

// reactionResponse carries a video's liker and disliker sets.
type reactionResponse struct {
	Likes    []int64 `json:"likes"`
	Dislikes []int64 `json:"dislikes"`
}

// List handles GET /api/videos with q, category, page and limit query
// parameters.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	videos, total, err := h.videos.List(r.Context(), q.Get("q"), q.Get("category"), page, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, videoListResponse{Videos: videos, Total: total})
}

// ListMine handles GET /api/videos/mine.
func (h *VideoHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	videos, err := h.videos.ListMine(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, videos)
}

// Create handles POST /api/videos.
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	var req createVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	video, err := h.videos.Create(r.Context(), identity.UserID, service.CreateVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		ChannelID:    req.ChannelID,
		Category:     req.Category,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, video)
}

// Get handles GET /api/videos/{id}.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", domain.ErrVideoNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	video, err := h.videos.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, video)
}

// Update handles PATCH /api/videos/{id}.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	id, err := pathID(r, "id", domain.ErrVideoNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req updateVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	video, err := h.videos.Update(r.Context(), identity.UserID, id, service.UpdateVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		Category:     req.Category,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, video)
}

// Delete handles DELETE /api/videos/{id}.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	id, err := pathID(r, "id", domain.ErrVideoNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.videos.Delete(r.Context(), identity.UserID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeMessage(w, http.StatusOK, "Video deleted")
}

// RecordView handles POST /api/videos/{id}/view. Views are anonymous;
// no token is required.
func (h *VideoHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", domain.ErrVideoNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	views, err := h.videos.RecordView(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, viewsResponse{Views: views})
}

// Like handles POST /api/videos/{id}/like.
func (h *VideoHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, domain.ReactionLike)
}

// Dislike handles POST /api/videos/{id}/dislike.
func (h *VideoHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.toggleReaction(w, r, domain.ReactionDislike)
}

func (h *VideoHandler) toggleReaction(w http.ResponseWriter, r *http.Request, kind domain.ReactionKind) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	id, err := pathID(r, "id", domain.ErrVideoNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	sets, err := h.videos.ToggleReaction(r.Context(), identity.UserID, id, kind)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, reactionResponse{Likes: sets.Likes, Dislikes: sets.Dislikes})
}
