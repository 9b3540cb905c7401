package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

// videoRepository implements repository.VideoRepository for PostgreSQL.
type videoRepository struct {
	db *DB
}

// NewVideoRepository creates a new PostgreSQL video repository.
func NewVideoRepository(db *DB) repository.VideoRepository {
	return &videoRepository{db: db}
}

// videoSelect joins channels so every read path carries the channel name.
const videoSelect = `
	SELECT v.id, v.title, v.description, v.video_url, v.thumbnail_url,
	       v.channel_id, c.name, v.uploader_id, v.views, v.category,
	       v.created_at, v.updated_at
	FROM videos v
	JOIN channels c ON c.id = v.channel_id
`

// Create creates a new video.
func (r *videoRepository) Create(ctx context.Context, video *domain.Video) error {
	query := `
		INSERT INTO videos (title, description, video_url, thumbnail_url, channel_id, uploader_id, views, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.ChannelID,
		video.UploaderID,
		video.Views,
		video.Category,
		video.CreatedAt,
		video.UpdatedAt,
	).Scan(&video.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrChannelNotFound
		}
		return fmt.Errorf("failed to create video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by ID with its reaction sets populated.
func (r *videoRepository) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	row := r.db.Pool.QueryRow(ctx, videoSelect+` WHERE v.id = $1`, id)

	video, err := scanVideo(row)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	sets, err := r.loadReactions(ctx, []int64{video.ID})
	if err != nil {
		return nil, err
	}
	applyReactions(video, sets)

	return video, nil
}

// List returns videos matching the options, newest first, plus the total.
func (r *videoRepository) List(ctx context.Context, opts repository.VideoListOptions) (*repository.VideoListResult, error) {
	var conds []string
	var args []interface{}

	if opts.Query != "" {
		args = append(args, "%"+opts.Query+"%")
		conds = append(conds, fmt.Sprintf("v.title ILIKE $%d", len(args)))
	}
	if opts.Category != "" && opts.Category != domain.DefaultCategory {
		args = append(args, opts.Category)
		conds = append(conds, fmt.Sprintf("v.category = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(1) FROM videos v` + where
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := videoSelect + where + fmt.Sprintf(
		` ORDER BY v.created_at DESC, v.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	videos, err := r.queryVideos(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &repository.VideoListResult{Videos: videos, Total: total}, nil
}

// ListByChannel returns all videos in a channel, newest first.
func (r *videoRepository) ListByChannel(ctx context.Context, channelID int64) ([]*domain.Video, error) {
	return r.queryVideos(ctx, videoSelect+` WHERE v.channel_id = $1 ORDER BY v.created_at DESC, v.id DESC`, channelID)
}

// ListByUploader returns all videos uploaded by a user, newest first.
func (r *videoRepository) ListByUploader(ctx context.Context, uploaderID int64) ([]*domain.Video, error) {
	return r.queryVideos(ctx, videoSelect+` WHERE v.uploader_id = $1 ORDER BY v.created_at DESC, v.id DESC`, uploaderID)
}

// UpdateFields overwrites the allow-listed mutable fields of a video.
func (r *videoRepository) UpdateFields(ctx context.Context, id int64, update repository.VideoUpdate) error {
	sets := []string{"updated_at = $1"}
	args := []interface{}{time.Now().UTC()}

	add := func(column string, value string) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.ThumbnailURL != nil {
		add("thumbnail_url", *update.ThumbnailURL)
	}
	if update.Category != nil {
		add("category", *update.Category)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE videos SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// Delete deletes a video. Reactions and comments cascade.
func (r *videoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVideoNotFound
	}

	return nil
}

// IncrementViews atomically increments the view counter and returns the new total.
func (r *videoRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views int64

	err := r.db.Pool.QueryRow(ctx,
		`UPDATE videos SET views = views + 1, updated_at = now() WHERE id = $1 RETURNING views`,
		id).Scan(&views)
	if err != nil {
		if isNoRows(err) {
			return 0, domain.ErrVideoNotFound
		}
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}

	return views, nil
}

// ToggleReaction applies the reaction transition for (video, user) inside
// a transaction and returns the video's resulting liker/disliker sets.
// The video row is locked for the duration so concurrent toggles on the
// same video serialize instead of interleaving.
func (r *videoRepository) ToggleReaction(ctx context.Context, videoID, userID int64, kind domain.ReactionKind) (*domain.ReactionSets, error) {
	var sets *domain.ReactionSets

	err := r.db.WithTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx, `SELECT id FROM videos WHERE id = $1 FOR UPDATE`, videoID).Scan(&locked)
		if err != nil {
			if isNoRows(err) {
				return domain.ErrVideoNotFound
			}
			return fmt.Errorf("failed to lock video: %w", err)
		}

		current := domain.ReactionNone
		var kindStr string
		err = tx.QueryRow(ctx,
			`SELECT kind FROM video_reactions WHERE video_id = $1 AND user_id = $2`,
			videoID, userID).Scan(&kindStr)
		switch {
		case err == nil:
			current = domain.Reaction(kindStr)
		case isNoRows(err):
			// no prior reaction
		default:
			return fmt.Errorf("failed to read current reaction: %w", err)
		}

		next := domain.ToggleReaction(current, kind)
		if next == domain.ReactionNone {
			_, err = tx.Exec(ctx,
				`DELETE FROM video_reactions WHERE video_id = $1 AND user_id = $2`,
				videoID, userID)
		} else {
			_, err = tx.Exec(ctx, `
				INSERT INTO video_reactions (video_id, user_id, kind)
				VALUES ($1, $2, $3)
				ON CONFLICT (video_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
			`, videoID, userID, string(next))
		}
		if err != nil {
			return fmt.Errorf("failed to write reaction: %w", err)
		}

		sets, err = scanReactionSets(tx.Query(ctx,
			`SELECT user_id, kind FROM video_reactions WHERE video_id = $1 ORDER BY created_at, user_id`,
			videoID))
		return err
	})
	if err != nil {
		return nil, err
	}

	return sets, nil
}

// queryVideos runs a videoSelect query and populates reaction sets for the page.
func (r *videoRepository) queryVideos(ctx context.Context, query string, args ...interface{}) ([]*domain.Video, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []*domain.Video{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}

	if len(videos) == 0 {
		return videos, nil
	}

	ids := make([]int64, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}
	sets, err := r.loadReactions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, v := range videos {
		applyReactions(v, sets)
	}

	return videos, nil
}

// loadReactions fetches the reaction rows for a set of videos in one query.
func (r *videoRepository) loadReactions(ctx context.Context, videoIDs []int64) (map[int64]*domain.ReactionSets, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT video_id, user_id, kind FROM video_reactions WHERE video_id = ANY($1) ORDER BY created_at, user_id`,
		videoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reactions: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]*domain.ReactionSets, len(videoIDs))
	for rows.Next() {
		var videoID, userID int64
		var kind string
		if err := rows.Scan(&videoID, &userID, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		sets, ok := result[videoID]
		if !ok {
			sets = &domain.ReactionSets{Likes: []int64{}, Dislikes: []int64{}}
			result[videoID] = sets
		}
		if domain.ReactionKind(kind) == domain.ReactionLike {
			sets.Likes = append(sets.Likes, userID)
		} else {
			sets.Dislikes = append(sets.Dislikes, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reactions: %w", err)
	}

	return result, nil
}

// applyReactions copies loaded sets onto a video, defaulting to empty sets.
func applyReactions(video *domain.Video, sets map[int64]*domain.ReactionSets) {
	if s, ok := sets[video.ID]; ok {
		video.Likes = s.Likes
		video.Dislikes = s.Dislikes
	} else {
		video.Likes = []int64{}
		video.Dislikes = []int64{}
	}
}

// scanReactionSets builds the liker/disliker sets from (user_id, kind) rows.
func scanReactionSets(rows pgx.Rows, err error) (*domain.ReactionSets, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	sets := &domain.ReactionSets{Likes: []int64{}, Dislikes: []int64{}}
	for rows.Next() {
		var userID int64
		var kind string
		if err := rows.Scan(&userID, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		if domain.ReactionKind(kind) == domain.ReactionLike {
			sets.Likes = append(sets.Likes, userID)
		} else {
			sets.Dislikes = append(sets.Dislikes, userID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reactions: %w", err)
	}

	return sets, nil
}

// scanVideo scans one videoSelect row.
func scanVideo(row pgx.Row) (*domain.Video, error) {
	video := &domain.Video{}

	err := row.Scan(
		&video.ID,
		&video.Title,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.ChannelID,
		&video.ChannelName,
		&video.UploaderID,
		&video.Views,
		&video.Category,
		&video.CreatedAt,
		&video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return video, nil
}
