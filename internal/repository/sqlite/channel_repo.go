package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

// channelRepository implements repository.ChannelRepository for SQLite.
type channelRepository struct {
	db *DB
}

// NewChannelRepository creates a new SQLite channel repository.
func NewChannelRepository(db *DB) repository.ChannelRepository {
	return &channelRepository{db: db}
}

const channelColumns = `id, name, owner_id, description, banner_url, subscribers, created_at, updated_at`

// Create creates a new channel.
func (r *channelRepository) Create(ctx context.Context, channel *domain.Channel) error {
	query := `
		INSERT INTO channels (name, owner_id, description, banner_url, subscribers, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		channel.Name,
		channel.OwnerID,
		channel.Description,
		channel.BannerURL,
		channel.Subscribers,
		channel.CreatedAt.Format(time.RFC3339),
		channel.UpdatedAt.Format(time.RFC3339),
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to create channel: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	channel.ID = id

	return nil
}

// GetByID retrieves a channel by ID.
func (r *channelRepository) GetByID(ctx context.Context, id int64) (*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = ?`

	channel := &domain.Channel{}
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&channel.ID,
		&channel.Name,
		&channel.OwnerID,
		&channel.Description,
		&channel.BannerURL,
		&channel.Subscribers,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	channel.CreatedAt = parseTime(createdAt)
	channel.UpdatedAt = parseTime(updatedAt)

	return channel, nil
}

// ListByOwner returns all channels owned by a user, newest first.
func (r *channelRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE owner_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	channels := []*domain.Channel{}
	for rows.Next() {
		channel := &domain.Channel{}
		var createdAt, updatedAt string
		if err := rows.Scan(
			&channel.ID,
			&channel.Name,
			&channel.OwnerID,
			&channel.Description,
			&channel.BannerURL,
			&channel.Subscribers,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channel.CreatedAt = parseTime(createdAt)
		channel.UpdatedAt = parseTime(updatedAt)
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channels: %w", err)
	}

	return channels, nil
}
