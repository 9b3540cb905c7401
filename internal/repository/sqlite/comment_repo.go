package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

// commentRepository implements repository.CommentRepository for SQLite.
type commentRepository struct {
	db *DB
}

// NewCommentRepository creates a new SQLite comment repository.
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
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		comment.VideoID,
		comment.UserID,
		comment.Text,
		comment.CreatedAt.Format(time.RFC3339),
		comment.UpdatedAt.Format(time.RFC3339),
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrVideoNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	comment.ID = id

	// Populate the author projection the API returns alongside new comments.
	err = r.db.QueryRowContext(ctx,
		`SELECT username, avatar_url FROM users WHERE id = ?`, comment.UserID).
		Scan(&comment.Username, &comment.AvatarURL)
	if err != nil {
		return fmt.Errorf("failed to load comment author: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID.
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, commentSelect+` WHERE cm.id = ?`, id)

	comment := &domain.Comment{}
	var createdAt, updatedAt string

	err := row.Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.UserID,
		&comment.Username,
		&comment.AvatarURL,
		&comment.Text,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	comment.CreatedAt = parseTime(createdAt)
	comment.UpdatedAt = parseTime(updatedAt)

	return comment, nil
}

// ListByVideo returns all comments on a video, newest first.
func (r *commentRepository) ListByVideo(ctx context.Context, videoID int64) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+` WHERE cm.video_id = ? ORDER BY cm.created_at DESC, cm.id DESC`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		comment := &domain.Comment{}
		var createdAt, updatedAt string
		if err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.UserID,
			&comment.Username,
			&comment.AvatarURL,
			&comment.Text,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comment.CreatedAt = parseTime(createdAt)
		comment.UpdatedAt = parseTime(updatedAt)
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// UpdateText overwrites a comment's text.
func (r *commentRepository) UpdateText(ctx context.Context, id int64, text string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET body = ?, updated_at = ? WHERE id = ?`,
		text, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}

// Delete deletes a comment by ID.
func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}
