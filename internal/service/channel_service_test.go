package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/lock"
)

func TestChannelService_Create(t *testing.T) {
	svc := NewChannelService(newMockChannelRepo(), newMockVideoRepo(), zerolog.Nop())

	channel, err := svc.Create(context.Background(), 1, CreateChannelInput{
		Name:        "Alice's Lab",
		Description: "experiments",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if channel.ID == 0 {
		t.Error("expected channel ID assigned")
	}
	if channel.OwnerID != 1 {
		t.Errorf("expected owner 1, got %d", channel.OwnerID)
	}
}

func TestChannelService_Create_Validation(t *testing.T) {
	svc := NewChannelService(newMockChannelRepo(), newMockVideoRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), 1, CreateChannelInput{Name: " x "})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if verrs[0].Field != "channelName" {
		t.Errorf("expected channelName field, got %s", verrs[0].Field)
	}
}

func TestChannelService_GetWithVideos(t *testing.T) {
	channels := newMockChannelRepo()
	videos := newMockVideoRepo()
	svc := NewChannelService(channels, videos, zerolog.Nop())
	ctx := context.Background()

	channel, err := svc.Create(ctx, 1, CreateChannelInput{Name: "Alice's Lab"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	videoSvc := NewVideoService(videos, channels, lock.NewNoopLocker(), zerolog.Nop())
	for _, title := range []string{"one", "two"} {
		if _, err := videoSvc.Create(ctx, 1, CreateVideoInput{
			Title:     title,
			VideoURL:  "https://cdn.example.com/v.mp4",
			ChannelID: channel.ID,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, vids, err := svc.GetWithVideos(ctx, channel.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != channel.ID {
		t.Errorf("expected channel %d, got %d", channel.ID, got.ID)
	}
	if len(vids) != 2 {
		t.Errorf("expected 2 videos, got %d", len(vids))
	}

	_, _, err = svc.GetWithVideos(ctx, 999)
	if !errors.Is(err, domain.ErrChannelNotFound) {
		t.Errorf("expected ErrChannelNotFound, got %v", err)
	}
}
