package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/lock"
)

type commentFixture struct {
	svc    *CommentService
	videos *mockVideoRepo

	author int64
	other  int64
	video  *domain.Video
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	ctx := context.Background()

	videos := newMockVideoRepo()
	channels := newMockChannelRepo()
	comments := newMockCommentRepo(videos)

	f := &commentFixture{
		svc:    NewCommentService(comments, videos, zerolog.Nop()),
		videos: videos,
		author: 1,
		other:  2,
	}

	channel := domain.NewChannel("Alice's Lab", f.author, "", "")
	if err := channels.Create(ctx, channel); err != nil {
		t.Fatalf("failed to seed channel: %v", err)
	}

	videoSvc := NewVideoService(videos, channels, lock.NewNoopLocker(), zerolog.Nop())
	video, err := videoSvc.Create(ctx, f.author, CreateVideoInput{
		Title:     "Intro",
		VideoURL:  "https://cdn.example.com/v.mp4",
		ChannelID: channel.ID,
	})
	if err != nil {
		t.Fatalf("failed to seed video: %v", err)
	}
	f.video = video

	return f
}

func TestCommentService_CreateAndList(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.author, f.video.ID, "first!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected comment ID assigned")
	}

	if _, err := f.svc.Create(ctx, f.other, f.video.ID, "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comments, err := f.svc.ListByVideo(ctx, f.video.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	// Newest first.
	if comments[0].Text != "second" {
		t.Errorf("expected newest comment first, got %q", comments[0].Text)
	}
}

func TestCommentService_ListByVideo_VideoNotFound(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.ListByVideo(context.Background(), 999)
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestCommentService_Create_Validation(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.Create(context.Background(), f.author, f.video.ID, "   ")
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}

func TestCommentService_Create_VideoNotFound(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.Create(context.Background(), f.author, 999, "hello")
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestCommentService_Update_AuthorshipGate(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	comment, err := f.svc.Create(ctx, f.author, f.video.ID, "original")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.svc.Update(ctx, f.other, comment.ID, "vandalized")
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	got, err := f.svc.Update(ctx, f.author, comment.ID, "edited")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "edited" {
		t.Errorf("expected edited text, got %q", got.Text)
	}
}

func TestCommentService_Delete_AuthorshipGate(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	comment, err := f.svc.Create(ctx, f.author, f.video.ID, "delete me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(ctx, f.other, comment.ID); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := f.svc.Delete(ctx, f.author, comment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.Delete(ctx, f.author, comment.ID); !errors.Is(err, domain.ErrCommentNotFound) {
		t.Errorf("expected ErrCommentNotFound after delete, got %v", err)
	}
}
