package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

// newTestDB opens an in-memory database with the schema applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(context.Background(), DefaultConfig(":memory:"), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// seedVideo creates a user, channel and video and returns them.
func seedVideo(t *testing.T, db *DB) (*domain.User, *domain.Channel, *domain.Video) {
	t.Helper()
	ctx := context.Background()

	user := domain.NewUser("alice", "alice@example.com", "hash", "")
	if err := NewUserRepository(db).Create(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	channel := domain.NewChannel("Alice's Lab", user.ID, "", "")
	if err := NewChannelRepository(db).Create(ctx, channel); err != nil {
		t.Fatalf("failed to seed channel: %v", err)
	}

	video := domain.NewVideo("Intro", "first video", "https://cdn.example.com/v.mp4",
		"https://cdn.example.com/t.jpg", channel.ID, user.ID, "")
	if err := NewVideoRepository(db).Create(ctx, video); err != nil {
		t.Fatalf("failed to seed video: %v", err)
	}

	return user, channel, video
}

func seedUser(t *testing.T, db *DB, username, email string) *domain.User {
	t.Helper()
	user := domain.NewUser(username, email, "hash", "")
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func TestVideoRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	_, channel, video := seedVideo(t, db)
	repo := NewVideoRepository(db)

	got, err := repo.GetByID(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Title != "Intro" {
		t.Errorf("expected title Intro, got %s", got.Title)
	}
	if got.ChannelName != channel.Name {
		t.Errorf("expected channel name %s, got %s", channel.Name, got.ChannelName)
	}
	if got.Views != 0 {
		t.Errorf("expected 0 views, got %d", got.Views)
	}
	if len(got.Likes) != 0 || len(got.Dislikes) != 0 {
		t.Errorf("expected empty reaction sets, got likes=%v dislikes=%v", got.Likes, got.Dislikes)
	}
	if got.Category != domain.DefaultCategory {
		t.Errorf("expected default category, got %s", got.Category)
	}
}

func TestVideoRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoRepository_ToggleReaction_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	_, _, video := seedVideo(t, db)
	bob := seedUser(t, db, "bob", "bob@example.com")
	repo := NewVideoRepository(db)
	ctx := context.Background()

	sets, err := repo.ToggleReaction(ctx, video.ID, bob.ID, domain.ReactionLike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets.Likes) != 1 || sets.Likes[0] != bob.ID {
		t.Errorf("expected likes=[%d], got %v", bob.ID, sets.Likes)
	}

	// Second like toggles off.
	sets, err = repo.ToggleReaction(ctx, video.ID, bob.ID, domain.ReactionLike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets.Likes) != 0 || len(sets.Dislikes) != 0 {
		t.Errorf("expected empty sets after double toggle, got likes=%v dislikes=%v", sets.Likes, sets.Dislikes)
	}
}

func TestVideoRepository_ToggleReaction_SwitchesKind(t *testing.T) {
	db := newTestDB(t)
	_, _, video := seedVideo(t, db)
	bob := seedUser(t, db, "bob", "bob@example.com")
	repo := NewVideoRepository(db)
	ctx := context.Background()

	if _, err := repo.ToggleReaction(ctx, video.ID, bob.ID, domain.ReactionDislike); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sets, err := repo.ToggleReaction(ctx, video.ID, bob.ID, domain.ReactionLike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sets.Likes) != 1 || sets.Likes[0] != bob.ID {
		t.Errorf("expected bob in likes, got %v", sets.Likes)
	}
	if len(sets.Dislikes) != 0 {
		t.Errorf("expected bob removed from dislikes, got %v", sets.Dislikes)
	}
}

func TestVideoRepository_ToggleReaction_VideoNotFound(t *testing.T) {
	db := newTestDB(t)
	bob := seedUser(t, db, "bob", "bob@example.com")
	repo := NewVideoRepository(db)

	_, err := repo.ToggleReaction(context.Background(), 9999, bob.ID, domain.ReactionLike)
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoRepository_IncrementViews_Monotonic(t *testing.T) {
	db := newTestDB(t)
	_, _, video := seedVideo(t, db)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	const n = 5
	var last int64
	for i := 1; i <= n; i++ {
		views, err := repo.IncrementViews(ctx, video.ID)
		if err != nil {
			t.Fatalf("unexpected error on increment %d: %v", i, err)
		}
		if views != int64(i) {
			t.Errorf("expected views=%d, got %d", i, views)
		}
		last = views
	}

	got, err := repo.GetByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Views != last {
		t.Errorf("stored views=%d, last returned=%d", got.Views, last)
	}
}

func TestVideoRepository_IncrementViews_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewVideoRepository(db)

	_, err := repo.IncrementViews(context.Background(), 404)
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoRepository_UpdateFields(t *testing.T) {
	db := newTestDB(t)
	_, _, video := seedVideo(t, db)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	title := "Intro (revised)"
	category := "Education"
	err := repo.UpdateFields(ctx, video.ID, repository.VideoUpdate{
		Title:    &title,
		Category: &category,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != title {
		t.Errorf("expected title %q, got %q", title, got.Title)
	}
	if got.Category != category {
		t.Errorf("expected category %q, got %q", category, got.Category)
	}
	// Untouched fields survive.
	if got.Description != video.Description {
		t.Errorf("description changed unexpectedly: %q", got.Description)
	}
	if got.VideoURL != video.VideoURL {
		t.Errorf("video URL changed unexpectedly: %q", got.VideoURL)
	}
}

func TestVideoRepository_List_FilterAndPaginate(t *testing.T) {
	db := newTestDB(t)
	user, channel, _ := seedVideo(t, db)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	mk := func(title, category string) {
		v := domain.NewVideo(title, "", "https://cdn.example.com/v.mp4",
			"https://cdn.example.com/t.jpg", channel.ID, user.ID, category)
		if err := repo.Create(ctx, v); err != nil {
			t.Fatalf("failed to create video %s: %v", title, err)
		}
	}
	mk("Go Concurrency Patterns", "Education")
	mk("Go Routines Deep Dive", "Education")
	mk("Cat Compilation", "Entertainment")

	// Text search on the title.
	result, err := repo.List(ctx, repository.VideoListOptions{Query: "go", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("expected total=2 for query 'go', got %d", result.Total)
	}

	// Category filter; "All" means no filter.
	result, err = repo.List(ctx, repository.VideoListOptions{Category: "Entertainment", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("expected total=1 for Entertainment, got %d", result.Total)
	}

	result, err = repo.List(ctx, repository.VideoListOptions{Category: "All", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 4 {
		t.Errorf("expected total=4 for All, got %d", result.Total)
	}

	// Pagination: total counts the filtered set, not the page.
	result, err = repo.List(ctx, repository.VideoListOptions{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Videos) != 2 {
		t.Errorf("expected page of 2, got %d", len(result.Videos))
	}
	if result.Total != 4 {
		t.Errorf("expected total=4, got %d", result.Total)
	}
}

func TestVideoRepository_Delete_Cascades(t *testing.T) {
	db := newTestDB(t)
	user, _, video := seedVideo(t, db)
	repo := NewVideoRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	if _, err := repo.ToggleReaction(ctx, video.ID, user.ID, domain.ReactionLike); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	comment := domain.NewComment(video.ID, user.ID, "first!")
	if err := commentRepo.Create(ctx, comment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.Delete(ctx, video.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.GetByID(ctx, video.ID); !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected video gone, got %v", err)
	}
	comments, err := commentRepo.ListByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected comments cascaded away, got %d", len(comments))
	}
}

func TestUserRepository_DuplicateRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, domain.NewUser("alice", "alice@example.com", "hash", "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := repo.Create(ctx, domain.NewUser("alice", "other@example.com", "hash", ""))
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists for duplicate username, got %v", err)
	}

	err = repo.Create(ctx, domain.NewUser("someone", "alice@example.com", "hash", ""))
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("expected ErrUserAlreadyExists for duplicate email, got %v", err)
	}
}

func TestCommentRepository_AuthorProjection(t *testing.T) {
	db := newTestDB(t)
	user, _, video := seedVideo(t, db)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := domain.NewComment(video.ID, user.ID, "nice one")
	if err := repo.Create(ctx, comment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comment.Username != user.Username {
		t.Errorf("expected author username populated, got %q", comment.Username)
	}

	comments, err := repo.ListByVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 1 || comments[0].Username != user.Username {
		t.Errorf("expected joined author in listing, got %+v", comments)
	}
}
