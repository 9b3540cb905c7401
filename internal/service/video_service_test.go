package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/lock"
)

type videoFixture struct {
	svc      *VideoService
	videos   *mockVideoRepo
	channels *mockChannelRepo

	owner   int64
	other   int64
	channel *domain.Channel
	video   *domain.Video
}

func newVideoFixture(t *testing.T) *videoFixture {
	t.Helper()
	ctx := context.Background()

	videos := newMockVideoRepo()
	channels := newMockChannelRepo()
	svc := NewVideoService(videos, channels, lock.NewNoopLocker(), zerolog.Nop())

	f := &videoFixture{svc: svc, videos: videos, channels: channels, owner: 1, other: 2}

	f.channel = domain.NewChannel("Alice's Lab", f.owner, "", "")
	if err := channels.Create(ctx, f.channel); err != nil {
		t.Fatalf("failed to seed channel: %v", err)
	}

	video, err := svc.Create(ctx, f.owner, CreateVideoInput{
		Title:     "Intro",
		VideoURL:  "https://cdn.example.com/v.mp4",
		ChannelID: f.channel.ID,
	})
	if err != nil {
		t.Fatalf("failed to seed video: %v", err)
	}
	f.video = video

	return f
}

func TestVideoService_Create(t *testing.T) {
	f := newVideoFixture(t)

	if f.video.Views != 0 {
		t.Errorf("expected new video to start at 0 views, got %d", f.video.Views)
	}
	if len(f.video.Likes) != 0 || len(f.video.Dislikes) != 0 {
		t.Error("expected new video to start with empty reaction sets")
	}
	if f.video.Category != domain.DefaultCategory {
		t.Errorf("expected default category, got %s", f.video.Category)
	}
	if f.video.ChannelName != "Alice's Lab" {
		t.Errorf("expected channel name populated, got %q", f.video.ChannelName)
	}
}

func TestVideoService_Create_NotChannelOwner(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.svc.Create(context.Background(), f.other, CreateVideoInput{
		Title:     "Hijack",
		VideoURL:  "https://cdn.example.com/x.mp4",
		ChannelID: f.channel.ID,
	})
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestVideoService_Create_ChannelNotFound(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner, CreateVideoInput{
		Title:     "Orphan",
		VideoURL:  "https://cdn.example.com/x.mp4",
		ChannelID: 999,
	})
	if !errors.Is(err, domain.ErrChannelNotFound) {
		t.Errorf("expected ErrChannelNotFound, got %v", err)
	}
}

func TestVideoService_Create_Validation(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.svc.Create(context.Background(), f.owner, CreateVideoInput{
		ChannelID: f.channel.ID,
	})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected errors for title and videoUrl, got %v", verrs)
	}
}

func TestVideoService_Update_OwnershipGate(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	title := "Stolen"
	_, err := f.svc.Update(ctx, f.other, f.video.ID, UpdateVideoInput{Title: &title})
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	// Denied update leaves the video unchanged.
	got, err := f.svc.Get(ctx, f.video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Intro" {
		t.Errorf("video changed by denied update: %q", got.Title)
	}
}

func TestVideoService_Update_NotFoundBeforeOwnership(t *testing.T) {
	f := newVideoFixture(t)

	title := "x"
	_, err := f.svc.Update(context.Background(), f.other, 999, UpdateVideoInput{Title: &title})
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound for missing video, got %v", err)
	}
}

func TestVideoService_Update(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	title := "Intro (revised)"
	category := "Education"
	got, err := f.svc.Update(ctx, f.owner, f.video.ID, UpdateVideoInput{
		Title:    &title,
		Category: &category,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != title || got.Category != category {
		t.Errorf("update not applied: title=%q category=%q", got.Title, got.Category)
	}

	// Empty update is a no-op, not an error.
	if _, err := f.svc.Update(ctx, f.owner, f.video.ID, UpdateVideoInput{}); err != nil {
		t.Errorf("unexpected error on empty update: %v", err)
	}
}

func TestVideoService_Delete_OwnershipGate(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	if err := f.svc.Delete(ctx, f.other, f.video.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := f.svc.Delete(ctx, f.owner, f.video.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.video.ID); !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected video gone, got %v", err)
	}
}

func TestVideoService_RecordView(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		views, err := f.svc.RecordView(ctx, f.video.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if views != want {
			t.Errorf("expected %d views, got %d", want, views)
		}
	}

	if _, err := f.svc.RecordView(ctx, 999); !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoService_ToggleReaction(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	// Like, then like again: round trip back to neutral.
	sets, err := f.svc.ToggleReaction(ctx, f.other, f.video.ID, domain.ReactionLike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets.Likes) != 1 {
		t.Errorf("expected 1 like, got %v", sets.Likes)
	}

	sets, err = f.svc.ToggleReaction(ctx, f.other, f.video.ID, domain.ReactionLike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets.Likes) != 0 || len(sets.Dislikes) != 0 {
		t.Errorf("expected neutral after round trip, got %+v", sets)
	}

	// Dislike then like: the dislike is replaced, never held alongside.
	if _, err := f.svc.ToggleReaction(ctx, f.other, f.video.ID, domain.ReactionDislike); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sets, err = f.svc.ToggleReaction(ctx, f.other, f.video.ID, domain.ReactionLike)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sets.Likes) != 1 || len(sets.Dislikes) != 0 {
		t.Errorf("expected switch to like, got %+v", sets)
	}
}

func TestVideoService_ToggleReaction_InvalidKind(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.svc.ToggleReaction(context.Background(), f.other, f.video.ID, domain.ReactionKind("love"))
	if !errors.Is(err, domain.ErrInvalidReactionKind) {
		t.Errorf("expected ErrInvalidReactionKind, got %v", err)
	}
}

func TestVideoService_ToggleReaction_VideoNotFound(t *testing.T) {
	f := newVideoFixture(t)

	_, err := f.svc.ToggleReaction(context.Background(), f.other, 999, domain.ReactionLike)
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestVideoService_List_Clamping(t *testing.T) {
	f := newVideoFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Create(ctx, f.owner, CreateVideoInput{
			Title:     "Extra",
			VideoURL:  "https://cdn.example.com/v.mp4",
			ChannelID: f.channel.ID,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Negative page and zero limit fall back to defaults.
	videos, total, err := f.svc.List(ctx, "", "", -1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
	if len(videos) != 4 {
		t.Errorf("expected all 4 on the first default page, got %d", len(videos))
	}

	// Oversized limit is capped, not rejected.
	if _, _, err := f.svc.List(ctx, "", "", 1, MaxPageSize+100); err != nil {
		t.Errorf("unexpected error for oversized limit: %v", err)
	}

	// Paging past the data returns an empty page with the true total.
	videos, total, err = f.svc.List(ctx, "", "", 99, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(videos) != 0 || total != 4 {
		t.Errorf("expected empty page and total 4, got %d videos, total %d", len(videos), total)
	}
}

func TestVideoService_ListMine(t *testing.T) {
	f := newVideoFixture(t)

	mine, err := f.svc.ListMine(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 video, got %d", len(mine))
	}

	none, err := f.svc.ListMine(context.Background(), f.other)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no videos for non-uploader, got %d", len(none))
	}
}
