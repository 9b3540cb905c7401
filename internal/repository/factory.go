// Package repository provides the data access layer for ReelTube.
// This file holds the repository bundle shared by the server and the
// admin CLI; construction lives in internal/bootstrap to keep this
// package free of driver imports.
package repository

import (
	"context"
)

// Repositories holds all repository instances.
type Repositories struct {
	User    UserRepository
	Channel ChannelRepository
	Video   VideoRepository
	Comment CommentRepository
}

// DatabaseHealth is an interface for database health checks.
// Both SQL backends satisfy it; the health endpoint pings through it.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
