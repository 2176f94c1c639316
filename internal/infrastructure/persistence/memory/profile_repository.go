package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"devconnector/internal/domain/profile"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]profile.Profile
	now      func() time.Time
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[uuid.UUID]profile.Profile), now: time.Now}
}

func (r *ProfileRepository) Upsert(_ context.Context, userID uuid.UUID, f profile.Fields) (profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if ok {
		p = cloneProfile(p)
		p.Apply(f)
	} else {
		p = profile.New(userID, f, r.now())
	}
	r.profiles[userID] = p
	return cloneProfile(p), nil
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID uuid.UUID) (profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *ProfileRepository) List(_ context.Context) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ProfileRepository) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.profiles, userID)
	return nil
}

func (r *ProfileRepository) PrependExperience(_ context.Context, userID uuid.UUID, e profile.Experience) (profile.Profile, error) {
	return r.mutate(userID, func(p *profile.Profile) { p.PrependExperience(e) })
}

func (r *ProfileRepository) RemoveExperience(_ context.Context, userID uuid.UUID, entryID uuid.UUID) (profile.Profile, error) {
	return r.mutate(userID, func(p *profile.Profile) { p.RemoveExperience(entryID) })
}

func (r *ProfileRepository) PrependEducation(_ context.Context, userID uuid.UUID, e profile.Education) (profile.Profile, error) {
	return r.mutate(userID, func(p *profile.Profile) { p.PrependEducation(e) })
}

func (r *ProfileRepository) RemoveEducation(_ context.Context, userID uuid.UUID, entryID uuid.UUID) (profile.Profile, error) {
	return r.mutate(userID, func(p *profile.Profile) { p.RemoveEducation(entryID) })
}

// mutate applies fn under the write lock, which makes the
// fetch-mutate-persist cycle atomic for this store.
func (r *ProfileRepository) mutate(userID uuid.UUID, fn func(p *profile.Profile)) (profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	p = cloneProfile(p)
	fn(&p)
	r.profiles[userID] = p
	return cloneProfile(p), nil
}

func cloneProfile(p profile.Profile) profile.Profile {
	p.Skills = append([]string{}, p.Skills...)
	p.Social = maps.Clone(p.Social)
	if p.Social == nil {
		p.Social = map[string]string{}
	}
	p.Experience = append([]profile.Experience{}, p.Experience...)
	p.Education = append([]profile.Education{}, p.Education...)
	return p
}

var _ profile.Repository = (*ProfileRepository)(nil)
