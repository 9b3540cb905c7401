// Package domain contains the core business entities for ReelTube.
package domain

import (
	"errors"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same username/email exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrChannelNotFound indicates the requested channel does not exist.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrVideoNotFound indicates the requested video does not exist.
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentNotFound indicates the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotOwner indicates the acting user is authenticated but is not the
	// owner/uploader/author of the resource being mutated.
	ErrNotOwner = errors.New("not the resource owner")

	// ErrInvalidReactionKind indicates an unknown reaction kind was requested.
	ErrInvalidReactionKind = errors.New("invalid reaction kind")
)
