package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/reeltube/reeltube/internal/domain"
	"github.com/reeltube/reeltube/internal/repository"
)

// mockUserRepo is an in-memory implementation of repository.UserRepository.
type mockUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	var items []*domain.User
	for _, u := range m.users {
		items = append(items, u)
	}
	return &repository.ListResult[domain.User]{
		Items:  items,
		Total:  int64(len(items)),
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// mockChannelRepo is an in-memory implementation of repository.ChannelRepository.
type mockChannelRepo struct {
	channels map[int64]*domain.Channel
	nextID   int64
}

func newMockChannelRepo() *mockChannelRepo {
	return &mockChannelRepo{channels: make(map[int64]*domain.Channel), nextID: 1}
}

func (m *mockChannelRepo) Create(ctx context.Context, channel *domain.Channel) error {
	channel.ID = m.nextID
	m.nextID++
	m.channels[channel.ID] = channel
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, id int64) (*domain.Channel, error) {
	if c, ok := m.channels[id]; ok {
		return c, nil
	}
	return nil, domain.ErrChannelNotFound
}

func (m *mockChannelRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Channel, error) {
	var result []*domain.Channel
	for _, c := range m.channels {
		if c.OwnerID == ownerID {
			result = append(result, c)
		}
	}
	return result, nil
}

// mockVideoRepo is an in-memory implementation of repository.VideoRepository.
// Reactions live in a nested map keyed by video then user, mirroring the
// one-row-per-pair storage model.
type mockVideoRepo struct {
	videos    map[int64]*domain.Video
	order     []int64
	reactions map[int64]map[int64]domain.ReactionKind
	nextID    int64
}

func newMockVideoRepo() *mockVideoRepo {
	return &mockVideoRepo{
		videos:    make(map[int64]*domain.Video),
		reactions: make(map[int64]map[int64]domain.ReactionKind),
		nextID:    1,
	}
}

func (m *mockVideoRepo) Create(ctx context.Context, video *domain.Video) error {
	video.ID = m.nextID
	m.nextID++
	m.videos[video.ID] = video
	m.order = append(m.order, video.ID)
	return nil
}

func (m *mockVideoRepo) GetByID(ctx context.Context, id int64) (*domain.Video, error) {
	v, ok := m.videos[id]
	if !ok {
		return nil, domain.ErrVideoNotFound
	}
	m.applySets(v)
	return v, nil
}

func (m *mockVideoRepo) List(ctx context.Context, opts repository.VideoListOptions) (*repository.VideoListResult, error) {
	var matched []*domain.Video
	// Newest first.
	for i := len(m.order) - 1; i >= 0; i-- {
		v := m.videos[m.order[i]]
		if opts.Query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(opts.Query)) {
			continue
		}
		if opts.Category != "" && opts.Category != domain.DefaultCategory && v.Category != opts.Category {
			continue
		}
		m.applySets(v)
		matched = append(matched, v)
	}

	total := int64(len(matched))
	if opts.Offset >= len(matched) {
		return &repository.VideoListResult{Videos: []*domain.Video{}, Total: total}, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return &repository.VideoListResult{Videos: matched[opts.Offset:end], Total: total}, nil
}

func (m *mockVideoRepo) ListByChannel(ctx context.Context, channelID int64) ([]*domain.Video, error) {
	result := []*domain.Video{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if v := m.videos[m.order[i]]; v.ChannelID == channelID {
			m.applySets(v)
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *mockVideoRepo) ListByUploader(ctx context.Context, uploaderID int64) ([]*domain.Video, error) {
	result := []*domain.Video{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if v := m.videos[m.order[i]]; v.UploaderID == uploaderID {
			m.applySets(v)
			result = append(result, v)
		}
	}
	return result, nil
}

func (m *mockVideoRepo) UpdateFields(ctx context.Context, id int64, update repository.VideoUpdate) error {
	v, ok := m.videos[id]
	if !ok {
		return domain.ErrVideoNotFound
	}
	if update.Title != nil {
		v.Title = *update.Title
	}
	if update.Description != nil {
		v.Description = *update.Description
	}
	if update.ThumbnailURL != nil {
		v.ThumbnailURL = *update.ThumbnailURL
	}
	if update.Category != nil {
		v.Category = *update.Category
	}
	return nil
}

func (m *mockVideoRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.videos[id]; !ok {
		return domain.ErrVideoNotFound
	}
	delete(m.videos, id)
	delete(m.reactions, id)
	return nil
}

func (m *mockVideoRepo) IncrementViews(ctx context.Context, id int64) (int64, error) {
	v, ok := m.videos[id]
	if !ok {
		return 0, domain.ErrVideoNotFound
	}
	v.Views++
	return v.Views, nil
}

func (m *mockVideoRepo) ToggleReaction(ctx context.Context, videoID, userID int64, kind domain.ReactionKind) (*domain.ReactionSets, error) {
	if _, ok := m.videos[videoID]; !ok {
		return nil, domain.ErrVideoNotFound
	}

	byUser, ok := m.reactions[videoID]
	if !ok {
		byUser = make(map[int64]domain.ReactionKind)
		m.reactions[videoID] = byUser
	}

	current := domain.ReactionNone
	if held, ok := byUser[userID]; ok {
		current = domain.Reaction(held)
	}

	next := domain.ToggleReaction(current, kind)
	if next == domain.ReactionNone {
		delete(byUser, userID)
	} else {
		byUser[userID] = domain.ReactionKind(next)
	}

	return m.sets(videoID), nil
}

func (m *mockVideoRepo) sets(videoID int64) *domain.ReactionSets {
	sets := &domain.ReactionSets{Likes: []int64{}, Dislikes: []int64{}}
	for userID, kind := range m.reactions[videoID] {
		if kind == domain.ReactionLike {
			sets.Likes = append(sets.Likes, userID)
		} else {
			sets.Dislikes = append(sets.Dislikes, userID)
		}
	}
	return sets
}

func (m *mockVideoRepo) applySets(v *domain.Video) {
	s := m.sets(v.ID)
	v.Likes = s.Likes
	v.Dislikes = s.Dislikes
}

// mockCommentRepo is an in-memory implementation of repository.CommentRepository.
type mockCommentRepo struct {
	comments map[int64]*domain.Comment
	order    []int64
	videos   *mockVideoRepo
	nextID   int64
}

func newMockCommentRepo(videos *mockVideoRepo) *mockCommentRepo {
	return &mockCommentRepo{
		comments: make(map[int64]*domain.Comment),
		videos:   videos,
		nextID:   1,
	}
}

func (m *mockCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	if _, ok := m.videos.videos[comment.VideoID]; !ok {
		return domain.ErrVideoNotFound
	}
	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.ID] = comment
	m.order = append(m.order, comment.ID)
	return nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	if c, ok := m.comments[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCommentNotFound
}

func (m *mockCommentRepo) ListByVideo(ctx context.Context, videoID int64) ([]*domain.Comment, error) {
	result := []*domain.Comment{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if c, ok := m.comments[m.order[i]]; ok && c.VideoID == videoID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCommentRepo) UpdateText(ctx context.Context, id int64, text string) error {
	c, ok := m.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	c.Text = text
	return nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.comments[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(m.comments, id)
	return nil
}

// stubTokenIssuer issues predictable tokens for assertions.
type stubTokenIssuer struct {
	err error
}

func (s *stubTokenIssuer) Issue(user *domain.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("token-%d", user.ID), nil
}

// Interface conformance for the mocks.
var (
	_ repository.UserRepository    = (*mockUserRepo)(nil)
	_ repository.ChannelRepository = (*mockChannelRepo)(nil)
	_ repository.VideoRepository   = (*mockVideoRepo)(nil)
	_ repository.CommentRepository = (*mockCommentRepo)(nil)
)
