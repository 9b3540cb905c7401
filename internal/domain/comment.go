package domain

import (
	"time"
)

// Comment is a text comment attached to a video by one author.
// Only the author may edit or delete it.
type Comment struct {
	// ID is the unique identifier for the comment (auto-generated).
	ID int64 `json:"id"`

	// VideoID references the video the comment is attached to.
	VideoID int64 `json:"videoId"`

	// UserID references the comment's author.
	UserID int64 `json:"userId"`

	// Username is the author's username. Populated by read paths that
	// join against users; not a stored column.
	Username string `json:"username,omitempty"`

	// AvatarURL is the author's avatar reference, populated alongside Username.
	AvatarURL string `json:"avatar,omitempty"`

	// Text is the comment body. Never empty.
	Text string `json:"text"`

	// CreatedAt is the timestamp when the comment was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the comment was last edited.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewComment creates a new Comment with default values.
func NewComment(videoID, userID int64, text string) *Comment {
	now := time.Now().UTC()
	return &Comment{
		VideoID:   videoID,
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
