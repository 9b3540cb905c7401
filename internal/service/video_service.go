package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/lock"
	"github.com/reeltube/reeltube/internal/repository"
)

const (
	// DefaultPageSize is the video page size when the client sends none.
	DefaultPageSize = 12

	// MaxPageSize caps the page size a client may request.
	MaxPageSize = 50

	reactionLockTTL     = 5 * time.Second
	reactionLockRetries = 3
	reactionLockDelay   = 50 * time.Millisecond
)

// VideoService handles video metadata, views and reactions.
type VideoService struct {
	videos   repository.VideoRepository
	channels repository.ChannelRepository
	locker   lock.Locker
	logger   zerolog.Logger
}

// NewVideoService creates a new video service.
func NewVideoService(videos repository.VideoRepository, channels repository.ChannelRepository, locker lock.Locker, logger zerolog.Logger) *VideoService {
	return &VideoService{
		videos:   videos,
		channels: channels,
		locker:   locker,
		logger:   logger.With().Str("component", "video_service").Logger(),
	}
}

// CreateVideoInput is the payload for Create.
type CreateVideoInput struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	ChannelID    int64
	Category     string
}

// Create registers a video's metadata under one of the actor's channels.
// The actor must own the target channel.
func (s *VideoService) Create(ctx context.Context, actorID int64, input CreateVideoInput) (*domain.Video, error) {
	input.Title = strings.TrimSpace(input.Title)

	var errs ValidationErrors
	if input.Title == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "title is required"})
	}
	if input.VideoURL == "" {
		errs = append(errs, ValidationError{Field: "videoUrl", Message: "video URL is required"})
	}
	if input.ChannelID == 0 {
		errs = append(errs, ValidationError{Field: "channelId", Message: "channel is required"})
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}

	channel, err := s.channels.GetByID(ctx, input.ChannelID)
	if err != nil {
		return nil, err
	}
	if channel.OwnerID != actorID {
		return nil, domain.ErrNotOwner
	}

	video := domain.NewVideo(input.Title, input.Description, input.VideoURL,
		input.ThumbnailURL, input.ChannelID, actorID, input.Category)
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	video.ChannelName = channel.Name

	s.logger.Info().
		Int64("video_id", video.ID).
		Int64("channel_id", channel.ID).
		Int64("uploader_id", actorID).
		Msg("video created")

	return video, nil
}

// Get retrieves a video by ID.
func (s *VideoService) Get(ctx context.Context, id int64) (*domain.Video, error) {
	return s.videos.GetByID(ctx, id)
}

// List returns a page of videos matching the query and category filters,
// newest first, plus the total of the filtered set. Page numbers start
// at 1; out-of-range paging parameters are clamped rather than rejected.
func (s *VideoService) List(ctx context.Context, query, category string, page, limit int) ([]*domain.Video, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	result, err := s.videos.List(ctx, repository.VideoListOptions{
		Query:    strings.TrimSpace(query),
		Category: strings.TrimSpace(category),
		Offset:   (page - 1) * limit,
		Limit:    limit,
	})
	if err != nil {
		return nil, 0, err
	}

	return result.Videos, result.Total, nil
}

// ListMine returns all videos uploaded by the acting user.
func (s *VideoService) ListMine(ctx context.Context, actorID int64) ([]*domain.Video, error) {
	return s.videos.ListByUploader(ctx, actorID)
}

// UpdateVideoInput carries the mutable fields of a video. Nil means
// "leave unchanged". The video URL, channel, uploader, views and
// reactions cannot be changed through updates.
type UpdateVideoInput struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	Category     *string
}

// Update edits a video's metadata. Only the uploader may update it.
func (s *VideoService) Update(ctx context.Context, actorID, videoID int64, input UpdateVideoInput) (*domain.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.UploaderID != actorID {
		return nil, domain.ErrNotOwner
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, ValidationErrors{{Field: "title", Message: "title cannot be empty"}}
	}

	update := repository.VideoUpdate{
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
		Category:     input.Category,
	}
	if update.IsZero() {
		return video, nil
	}

	if err := s.videos.UpdateFields(ctx, videoID, update); err != nil {
		return nil, err
	}

	return s.videos.GetByID(ctx, videoID)
}

// Delete removes a video. Only the uploader may delete it.
func (s *VideoService) Delete(ctx context.Context, actorID, videoID int64) error {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video.UploaderID != actorID {
		return domain.ErrNotOwner
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("video_id", videoID).
		Int64("actor_id", actorID).
		Msg("video deleted")

	return nil
}

// RecordView increments a video's view counter by exactly one and
// returns the new total. Views are anonymous and unconditional: every
// call counts, with no dedup window.
func (s *VideoService) RecordView(ctx context.Context, videoID int64) (int64, error) {
	return s.videos.IncrementViews(ctx, videoID)
}

// ToggleReaction applies a like or dislike toggle by the acting user and
// returns the video's resulting liker/disliker sets. Toggling the held
// reaction removes it; toggling the other kind switches it.
//
// A short lock per (video, user) serializes double-submits from the same
// client; the storage layer's transaction keeps the transition atomic
// regardless.
func (s *VideoService) ToggleReaction(ctx context.Context, actorID, videoID int64, kind domain.ReactionKind) (*domain.ReactionSets, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidReactionKind
	}

	key := lock.Keys.Reaction(videoID, actorID)
	acquired, err := s.locker.AcquireWithRetry(ctx, key, reactionLockTTL, reactionLockRetries, reactionLockDelay)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, repository.ErrLockNotAcquired
	}
	defer func() {
		if _, err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to release reaction lock")
		}
	}()

	sets, err := s.videos.ToggleReaction(ctx, videoID, actorID, kind)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("video_id", videoID).
		Int64("user_id", actorID).
		Str("kind", string(kind)).
		Int("likes", len(sets.Likes)).
		Int("dislikes", len(sets.Dislikes)).
		Msg("reaction toggled")

	return sets, nil
}
