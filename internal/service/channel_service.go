package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

const minChannelNameLength = 2

// ChannelService handles channel creation and lookup.
type ChannelService struct {
	channels repository.ChannelRepository
	videos   repository.VideoRepository
	logger   zerolog.Logger
}

// NewChannelService creates a new channel service.
func NewChannelService(channels repository.ChannelRepository, videos repository.VideoRepository, logger zerolog.Logger) *ChannelService {
	return &ChannelService{
		channels: channels,
		videos:   videos,
		logger:   logger.With().Str("component", "channel_service").Logger(),
	}
}

// CreateChannelInput is the payload for Create.
type CreateChannelInput struct {
	Name        string
	Description string
	Banner      string
}

// Create creates a channel owned by the acting user.
func (s *ChannelService) Create(ctx context.Context, actorID int64, input CreateChannelInput) (*domain.Channel, error) {
	input.Name = strings.TrimSpace(input.Name)

	var errs ValidationErrors
	if len(input.Name) < minChannelNameLength {
		errs = append(errs, ValidationError{Field: "channelName", Message: "channel name must be at least 2 characters"})
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	channel := domain.NewChannel(input.Name, actorID, input.Description, input.Banner)
	if err := s.channels.Create(ctx, channel); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("channel_id", channel.ID).
		Int64("owner_id", actorID).
		Msg("channel created")

	return channel, nil
}

// Get retrieves a channel by ID.
func (s *ChannelService) Get(ctx context.Context, id int64) (*domain.Channel, error) {
	return s.channels.GetByID(ctx, id)
}

// GetWithVideos retrieves a channel together with its videos, newest first.
func (s *ChannelService) GetWithVideos(ctx context.Context, id int64) (*domain.Channel, []*domain.Video, error) {
	channel, err := s.channels.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	videos, err := s.videos.ListByChannel(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return channel, videos, nil
}

// ListByOwner returns all channels owned by a user.
func (s *ChannelService) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Channel, error) {
	return s.channels.ListByOwner(ctx, ownerID)
}
