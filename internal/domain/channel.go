package domain

import (
	"time"
)

// Channel is a named collection of videos owned by exactly one user.
type Channel struct {
	// ID is the unique identifier for the channel (auto-generated).
	ID int64 `json:"id"`

	// Name is the display name of the channel.
	// Constraints: 2-255 characters.
	Name string `json:"channelName"`

	// OwnerID references the user who owns this channel.
	// Only the owner may upload videos to it.
	OwnerID int64 `json:"ownerId"`

	// Description is free-form text describing the channel.
	Description string `json:"description"`

	// BannerURL is an externally hosted banner image reference.
	BannerURL string `json:"channelBanner"`

	// Subscribers is the subscriber counter for the channel.
	Subscribers int64 `json:"subscribers"`

	// CreatedAt is the timestamp when the channel was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the channel was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewChannel creates a new Channel with default values.
func NewChannel(name string, ownerID int64, description, bannerURL string) *Channel {
	now := time.Now().UTC()
	return &Channel{
		Name:        name,
		OwnerID:     ownerID,
		Description: description,
		BannerURL:   bannerURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
