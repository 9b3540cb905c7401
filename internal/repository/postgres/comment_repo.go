package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

// commentRepository implements repository.CommentRepository for PostgreSQL.
type commentRepository struct {
	db *DB
}

// NewCommentRepository creates a new PostgreSQL comment repository.
func NewCommentRepository(db *DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

// commentSelect joins users so read paths carry the author's username/avatar.
const commentSelect = `
	SELECT cm.id, cm.video_id, cm.user_id, u.username, u.avatar_url,
	       cm.body, cm.created_at, cm.updated_at
	FROM comments cm
	JOIN users u ON u.id = cm.user_id
`

// Create creates a new comment and populates the author projection.
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (video_id, user_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		comment.VideoID,
		comment.UserID,
		comment.Text,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrVideoNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	// Populate the author projection the API returns alongside new comments.
	err = r.db.Pool.QueryRow(ctx,
		`SELECT username, avatar_url FROM users WHERE id = $1`, comment.UserID).
		Scan(&comment.Username, &comment.AvatarURL)
	if err != nil {
		return fmt.Errorf("failed to load comment author: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID.
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.Pool.QueryRow(ctx, commentSelect+` WHERE cm.id = $1`, id)

	comment := &domain.Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.Username,
		&comment.AvatarURL,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// ListByVideo returns all comments on a video, newest first.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID int64) ([]*domain.Comment, error) {
	rows, err := r.db.Pool.Query(ctx,
		commentSelect+` WHERE cm.video_id = $1 ORDER BY cm.created_at DESC, cm.id DESC`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		comment := &domain.Comment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.UserID,
			&comment.Username,
			&comment.AvatarURL,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// UpdateText overwrites a comment's text.
func (r *commentRepository) UpdateText(ctx context.Context, id int64, text string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE comments SET body = $1, updated_at = $2 WHERE id = $3`,
		text, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}

// Delete deletes a comment by ID.
func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}
