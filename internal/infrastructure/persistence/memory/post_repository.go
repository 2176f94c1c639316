package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"devconnector/internal/domain/post"
)

// PostRepository keeps posts in a map. Posts created within the same clock
// tick list in insertion order, newest first.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]post.Post
	seq   map[uuid.UUID]uint64
	next  uint64
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[uuid.UUID]post.Post), seq: make(map[uuid.UUID]uint64)}
}

func (r *PostRepository) Create(_ context.Context, p post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.posts[p.ID] = clonePost(p)
	r.next++
	r.seq[p.ID] = r.next
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id uuid.UUID) (post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) List(_ context.Context) ([]post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

func (r *PostRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return post.ErrNotFound
	}
	delete(r.posts, id)
	delete(r.seq, id)
	return nil
}

func (r *PostRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.posts {
		if p.UserID == userID {
			delete(r.posts, id)
			delete(r.seq, id)
		}
	}
	return nil
}

func (r *PostRepository) PrependComment(_ context.Context, postID uuid.UUID, c post.Comment) (post.Post, error) {
	return r.mutate(postID, func(p *post.Post) { p.PrependComment(c) })
}

func (r *PostRepository) RemoveComment(_ context.Context, postID uuid.UUID, commentID uuid.UUID) (post.Post, error) {
	return r.mutate(postID, func(p *post.Post) { p.RemoveComment(commentID) })
}

func (r *PostRepository) mutate(id uuid.UUID, fn func(p *post.Post)) (post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	p = clonePost(p)
	fn(&p)
	r.posts[id] = p
	return clonePost(p), nil
}

func clonePost(p post.Post) post.Post {
	p.Comments = append([]post.Comment{}, p.Comments...)
	return p
}

var _ post.Repository = (*PostRepository)(nil)
