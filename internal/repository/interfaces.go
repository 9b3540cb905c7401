// Package repository defines data access interfaces for ReelTube.
// These interfaces abstract database operations, allowing for different
// implementations (PostgreSQL, SQLite, in-memory for testing) while keeping
// the service layer clean.
package repository

import (
	"context"

	"github.com/reeltube/reeltube/internal/domain"
)

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user.
	// Returns domain.ErrUserAlreadyExists on a username/email collision.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email. Login resolves users by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsernameOrEmail checks if a user with the given username
	// or email already exists.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// List returns all users with pagination. Used by the admin CLI.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.User], error)
}

// =============================================================================
// Channel Repository
// =============================================================================

// ChannelRepository defines the interface for channel data access.
type ChannelRepository interface {
	// Create creates a new channel.
	Create(ctx context.Context, channel *domain.Channel) error

	// GetByID retrieves a channel by ID.
	GetByID(ctx context.Context, id int64) (*domain.Channel, error)

	// ListByOwner returns all channels owned by a user, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Channel, error)
}

// =============================================================================
// Video Repository
// =============================================================================

// VideoRepository defines the interface for video metadata access.
type VideoRepository interface {
	// Create creates a new video.
	Create(ctx context.Context, video *domain.Video) error

	// GetByID retrieves a video by ID, with its channel name and
	// liker/disliker sets populated.
	GetByID(ctx context.Context, id int64) (*domain.Video, error)

	// List returns videos matching the options, newest first, plus the
	// total count of the filtered set (not the page).
	List(ctx context.Context, opts VideoListOptions) (*VideoListResult, error)

	// ListByChannel returns all videos in a channel, newest first.
	ListByChannel(ctx context.Context, channelID int64) ([]*domain.Video, error)

	// ListByUploader returns all videos uploaded by a user, newest first.
	ListByUploader(ctx context.Context, uploaderID int64) ([]*domain.Video, error)

	// UpdateFields overwrites the allow-listed mutable fields of a video.
	// Nil fields in the update are left unchanged. References, reaction
	// sets and counters are not reachable through this method.
	UpdateFields(ctx context.Context, id int64, update VideoUpdate) error

	// Delete deletes a video and its reactions and comments.
	Delete(ctx context.Context, id int64) error

	// IncrementViews atomically increments the view counter by exactly 1
	// and returns the new total. Returns domain.ErrVideoNotFound if the
	// id does not resolve.
	IncrementViews(ctx context.Context, id int64) (int64, error)

	// ToggleReaction applies the reaction toggle for (video, user) as a
	// single atomic storage operation and returns the resulting sets.
	// See domain.ToggleReaction for the transition semantics.
	ToggleReaction(ctx context.Context, videoID, userID int64, kind domain.ReactionKind) (*domain.ReactionSets, error)
}

// VideoUpdate carries the allow-listed mutable fields of a video.
// A nil pointer means "leave unchanged".
type VideoUpdate struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	Category     *string
}

// IsZero reports whether the update would change nothing.
func (u VideoUpdate) IsZero() bool {
	return u.Title == nil && u.Description == nil && u.ThumbnailURL == nil && u.Category == nil
}

// VideoListOptions contains options for listing videos.
type VideoListOptions struct {
	// Query filters videos by a case-insensitive title match.
	Query string

	// Category filters videos by category. Empty or "All" means no filter.
	Category string

	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int
}

// VideoListResult contains the result of a list videos operation.
type VideoListResult struct {
	// Videos is the page of videos.
	Videos []*domain.Video

	// Total is the number of videos matching the filter, ignoring pagination.
	Total int64
}

// =============================================================================
// Comment Repository
// =============================================================================

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	// Create creates a new comment and populates the author's username
	// and avatar on the passed comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by ID.
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)

	// ListByVideo returns all comments on a video, newest first, with
	// author usernames and avatars populated.
	ListByVideo(ctx context.Context, videoID int64) ([]*domain.Comment, error)

	// UpdateText overwrites a comment's text. Text is the only mutable field.
	UpdateText(ctx context.Context, id int64, text string) error

	// Delete deletes a comment by ID.
	Delete(ctx context.Context, id int64) error
}

// =============================================================================
// Common Types
// =============================================================================

// ListOptions contains common pagination options.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int
}

// ListResult is a generic paginated list result.
type ListResult[T any] struct {
	// Items is the list of items.
	Items []*T

	// Total is the total number of items (without pagination).
	Total int64

	// Offset is the current offset.
	Offset int

	// Limit is the current limit.
	Limit int
}
