// Package domain contains the core business entities for ReelTube.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the video sharing platform.
package domain

import (
	"time"
)

// User represents a registered identity in the system.
// Users own channels, upload videos to them, react to videos, and write comments.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// Username is the unique username for display.
	// Constraints: 3-255 characters.
	Username string `json:"username"`

	// Email is the unique email address used for login.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This is never exposed in API responses.
	PasswordHash string `json:"-"`

	// AvatarURL is an externally hosted profile image reference.
	AvatarURL string `json:"avatar"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUser creates a new User with default values.
func NewUser(username, email, passwordHash, avatarURL string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		AvatarURL:    avatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
