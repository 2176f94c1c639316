package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("post not found")

type Repository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	// List returns posts newest first.
	List(ctx context.Context) ([]Post, error)
	// Delete removes the post and its comments. Missing posts return ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByUserID removes every post authored by userID.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error

	PrependComment(ctx context.Context, postID uuid.UUID, c Comment) (Post, error)
	RemoveComment(ctx context.Context, postID uuid.UUID, commentID uuid.UUID) (Post, error)
}
