package postgres

import (
	"context"
	"fmt"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

// channelRepository implements repository.ChannelRepository for PostgreSQL.
type channelRepository struct {
	db *DB
}

// NewChannelRepository creates a new PostgreSQL channel repository.
func NewChannelRepository(db *DB) repository.ChannelRepository {
	return &channelRepository{db: db}
}

const channelColumns = `id, name, owner_id, description, banner_url, subscribers, created_at, updated_at`

// Create creates a new channel.
func (r *channelRepository) Create(ctx context.Context, channel *domain.Channel) error {
	query := `
		INSERT INTO channels (name, owner_id, description, banner_url, subscribers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		channel.Name,
		channel.OwnerID,
		channel.Description,
		channel.BannerURL,
		channel.Subscribers,
		channel.CreatedAt,
		channel.UpdatedAt,
	).Scan(&channel.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to create channel: %w", err)
	}

	return nil
}

// GetByID retrieves a channel by ID.
func (r *channelRepository) GetByID(ctx context.Context, id int64) (*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE id = $1`

	channel := &domain.Channel{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&channel.ID,
		&channel.Name,
		&channel.OwnerID,
		&channel.Description,
		&channel.BannerURL,
		&channel.Subscribers,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)

	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return channel, nil
}

// ListByOwner returns all channels owned by a user, newest first.
func (r *channelRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Channel, error) {
	query := `SELECT ` + channelColumns + ` FROM channels WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	channels := []*domain.Channel{}
	for rows.Next() {
		channel := &domain.Channel{}
		if err := rows.Scan(
			&channel.ID,
			&channel.Name,
			&channel.OwnerID,
			&channel.Description,
			&channel.BannerURL,
			&channel.Subscribers,
			&channel.CreatedAt,
			&channel.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channels: %w", err)
	}

	return channels, nil
}
