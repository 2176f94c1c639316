package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconnector/internal/domain/post"
	"devconnector/internal/domain/user"
	"devconnector/internal/pkg/apperr"
)

// ErrCommentNotFound is a NotFound for a comment inside an existing post.
var ErrCommentNotFound = fmt.Errorf("%w: comment does not exist", apperr.ErrNotFound)

// Notifier receives post changes after they are stored.
type Notifier interface {
	NotifyPost(event string, p post.Post)
}

type TextInput struct {
	Text string `json:"text" validate:"required"`
}

var textMessages = apperr.Messages{"text": "Text is required"}

type Service struct {
	posts    post.Repository
	users    user.Repository
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(posts post.Repository, users user.Repository, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{posts: posts, users: users, notifier: notifier, log: log, now: time.Now}
}

// Create stores a post with the author's current name and avatar.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in TextInput) (post.Post, error) {
	text, err := validateText(in)
	if err != nil {
		return post.Post{}, err
	}

	author, err := s.author(ctx, userID)
	if err != nil {
		return post.Post{}, err
	}

	p := post.Post{
		ID:        uuid.New(),
		UserID:    author.ID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Comments:  []post.Comment{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return post.Post{}, apperr.Internal(err)
	}

	s.notify(post.EventCreated, p)
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]post.Post, error) {
	items, err := s.posts.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (post.Post, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return post.Post{}, apperr.ErrNotFound
	}
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return post.Post{}, mapRepoError(err)
	}
	return p, nil
}

// DeleteByID removes a post owned by the caller, comments included.
func (s *Service) DeleteByID(ctx context.Context, userID uuid.UUID, rawID string) error {
	p, err := s.GetByID(ctx, rawID)
	if err != nil {
		return err
	}
	if !p.OwnedBy(userID) {
		s.log.Warn().
			Str("user_id", userID.String()).
			Str("post_id", p.ID.String()).
			Msg("post delete rejected: not owner")
		return apperr.ErrForbidden
	}

	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return mapRepoError(err)
	}

	s.notify(post.EventDeleted, p)
	return nil
}

// AddComment prepends a comment by the caller and returns the post's comments.
func (s *Service) AddComment(ctx context.Context, userID uuid.UUID, rawPostID string, in TextInput) ([]post.Comment, error) {
	text, err := validateText(in)
	if err != nil {
		return nil, err
	}

	postID, err := uuid.Parse(strings.TrimSpace(rawPostID))
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	author, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := post.Comment{
		ID:        uuid.New(),
		UserID:    author.ID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: s.now().UTC(),
	}
	p, err := s.posts.PrependComment(ctx, postID, c)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.notify(post.EventCommentAdded, p)
	return p.Comments, nil
}

// RemoveComment deletes one of the caller's comments and returns the post's
// remaining comments.
func (s *Service) RemoveComment(ctx context.Context, userID uuid.UUID, rawPostID, rawCommentID string) ([]post.Comment, error) {
	p, err := s.GetByID(ctx, rawPostID)
	if err != nil {
		return nil, err
	}

	commentID, err := uuid.Parse(strings.TrimSpace(rawCommentID))
	if err != nil {
		return nil, ErrCommentNotFound
	}
	c, ok := p.FindComment(commentID)
	if !ok {
		return nil, ErrCommentNotFound
	}
	if !c.OwnedBy(userID) {
		return nil, apperr.ErrForbidden
	}

	p, err = s.posts.RemoveComment(ctx, p.ID, commentID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.notify(post.EventCommentRemoved, p)
	return p.Comments, nil
}

func (s *Service) author(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, apperr.ErrUnauthenticated
		}
		return user.User{}, apperr.Internal(err)
	}
	return u, nil
}

func (s *Service) notify(event string, p post.Post) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyPost(event, p)
}

func validateText(in TextInput) (string, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := apperr.Validate(in, textMessages).OrNil(); err != nil {
		return "", err
	}
	return in.Text, nil
}

func mapRepoError(err error) error {
	if errors.Is(err, post.ErrNotFound) {
		return apperr.ErrNotFound
	}
	return apperr.Internal(err)
}
