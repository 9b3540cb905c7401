package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

const maxCommentLength = 2000

// CommentService handles comments on videos.
type CommentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
	logger   zerolog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository, logger zerolog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		videos:   videos,
		logger:   logger.With().Str("component", "comment_service").Logger(),
	}
}

// ListByVideo returns all comments on a video, newest first. The video
// must exist; listing a missing video is a not-found, not an empty list.
func (s *CommentService) ListByVideo(ctx context.Context, videoID int64) ([]*domain.Comment, error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}
	return s.comments.ListByVideo(ctx, videoID)
}

// Create posts a comment by the acting user on a video.
func (s *CommentService) Create(ctx context.Context, actorID, videoID int64, text string) (*domain.Comment, error) {
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	comment := domain.NewComment(videoID, actorID, strings.TrimSpace(text))
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int64("comment_id", comment.ID).
		Int64("video_id", videoID).
		Int64("user_id", actorID).
		Msg("comment created")

	return comment, nil
}

// Update edits a comment's text. Only the author may edit it.
func (s *CommentService) Update(ctx context.Context, actorID, commentID int64, text string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, domain.ErrNotOwner
	}

	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	if err := s.comments.UpdateText(ctx, commentID, strings.TrimSpace(text)); err != nil {
		return nil, err
	}

	return s.comments.GetByID(ctx, commentID)
}

// Delete removes a comment. Only the author may delete it.
func (s *CommentService) Delete(ctx context.Context, actorID, commentID int64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actorID {
		return domain.ErrNotOwner
	}

	return s.comments.Delete(ctx, commentID)
}

func validateCommentText(text string) error {
	trimmed := strings.TrimSpace(text)

	var errs ValidationErrors
	if trimmed == "" {
		errs = append(errs, ValidationError{Field: "text", Message: "comment text is required"})
	} else if len(trimmed) > maxCommentLength {
		errs = append(errs, ValidationError{Field: "text", Message: "comment text is too long"})
	}
	return errs.ErrOrNil()
}
