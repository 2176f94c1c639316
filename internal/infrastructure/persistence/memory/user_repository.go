// Package memory implements every repository on mutex-guarded maps. It backs
// AGGREGATE_STORE=memory for local runs and the use-case and handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"devconnector/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]user.User
	email map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:  make(map[uuid.UUID]user.User),
		email: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.email[u.Email]; ok {
		return user.ErrEmailTaken
	}
	r.byID[u.ID] = u
	r.email[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.email[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *UserRepository) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		delete(r.email, u.Email)
		delete(r.byID, id)
	}
	return nil
}

var _ user.Repository = (*UserRepository)(nil)
