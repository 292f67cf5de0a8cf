package profile

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository backs tests of the profile service.
type MemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	profiles map[int64]Profile // keyed by user id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:   1,
		profiles: make(map[int64]Profile),
	}
}

func (r *MemoryRepository) FindByUserID(_ context.Context, userID int64) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) Save(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = r.nextID
		r.nextID++
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.profiles[p.UserID] = *p
	return nil
}
