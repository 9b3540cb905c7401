package domain

import (
	"time"
)

// DefaultCategory is assigned to videos created without an explicit category.
// The listing filter treats it as "no filter", so uncategorized videos always
// show up on the home feed.
const DefaultCategory = "All"

// Video holds the metadata for an externally hosted video.
// The video and thumbnail files themselves are never stored by ReelTube;
// only their URLs are.
type Video struct {
	// ID is the unique identifier for the video (auto-generated).
	ID int64 `json:"id"`

	// Title is the display title. Required, participates in text search.
	Title string `json:"title"`

	// Description is free-form text describing the video.
	Description string `json:"description"`

	// VideoURL is the externally hosted video reference.
	VideoURL string `json:"videoUrl"`

	// ThumbnailURL is the externally hosted thumbnail reference.
	ThumbnailURL string `json:"thumbnailUrl"`

	// ChannelID references the channel the video belongs to.
	ChannelID int64 `json:"channelId"`

	// ChannelName is the owning channel's display name.
	// Populated by read paths that join against channels; not a stored column.
	ChannelName string `json:"channelName,omitempty"`

	// UploaderID references the user who uploaded the video.
	// Only the uploader may edit or delete it.
	UploaderID int64 `json:"uploaderId"`

	// Views is the monotonic view counter. Never negative.
	Views int64 `json:"views"`

	// Likes holds the ids of users who currently like the video.
	Likes []int64 `json:"likes"`

	// Dislikes holds the ids of users who currently dislike the video.
	// A user id appears in at most one of Likes and Dislikes.
	Dislikes []int64 `json:"dislikes"`

	// Category is the listing filter category.
	Category string `json:"category"`

	// CreatedAt is the timestamp when the video was uploaded.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the video was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewVideo creates a new Video with default values.
// Likes and Dislikes start as empty (non-nil) sets so they serialize as [].
func NewVideo(title, description, videoURL, thumbnailURL string, channelID, uploaderID int64, category string) *Video {
	if category == "" {
		category = DefaultCategory
	}
	now := time.Now().UTC()
	return &Video{
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		ChannelID:    channelID,
		UploaderID:   uploaderID,
		Likes:        []int64{},
		Dislikes:     []int64{},
		Category:     category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// LikeCount returns the size of the liker set.
func (v *Video) LikeCount() int { return len(v.Likes) }

// DislikeCount returns the size of the disliker set.
func (v *Video) DislikeCount() int { return len(v.Dislikes) }
