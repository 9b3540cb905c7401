package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/auth"
	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/service"
)

// ChannelHandler serves channel endpoints.
type ChannelHandler struct {
	channels *service.ChannelService
	logger   zerolog.Logger
}

// NewChannelHandler creates a new channel handler.
func NewChannelHandler(channels *service.ChannelService, logger zerolog.Logger) *ChannelHandler {
	return &ChannelHandler{
		channels: channels,
		logger:   logger.With().Str("component", "channel_handler").Logger(),
	}
}

type createChannelRequest struct {
	Name        string `json:"channelName"`
	Description string `json:"description"`
	Banner      string `json:"channelBanner"`
}

// channelPageResponse is the channel page: the channel plus its videos.
type channelPageResponse struct {
	Channel *domain.Channel `json:"channel"`
	Videos  []*domain.Video `json:"videos"`
}

// Create handles POST /api/channels.
func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	var req createChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	channel, err := h.channels.Create(r.Context(), identity.UserID, service.CreateChannelInput{
		Name:        req.Name,
		Description: req.Description,
		Banner:      req.Banner,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, channel)
}

// Get handles GET /api/channels/{id}. The response carries the channel
// together with its videos, newest first.
func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", domain.ErrChannelNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	channel, videos, err := h.channels.GetWithVideos(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, channelPageResponse{Channel: channel, Videos: videos})
}

// pathID parses a positive integer path parameter. A malformed id is a
// not-found for the named resource, not a validation error: /videos/abc
// names nothing.
func pathID(r *http.Request, name string, notFound error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}
