package customer

import (
	"context"
	"sort"
	"sync"

	"retail-customers/internal/domain"
)

type memoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.Customer
}

// NewMemory returns a Repository that keeps customers in process memory.
func NewMemory() Repository {
	return &memoryRepo{rows: make(map[int64]domain.Customer)}
}

func (r *memoryRepo) Save(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := clone(c.WithID(r.nextID))
	r.rows[r.nextID] = stored
	out := clone(stored)
	return &out, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id int64) (*domain.Customer, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	out := clone(c)
	return &out, true, nil
}

func (r *memoryRepo) FindAll(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Customer, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out, nil
}

func (r *memoryRepo) DeleteByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *memoryRepo) Update(_ context.Context, c domain.Customer) (*domain.Customer, bool, error) {
	if c.ID == nil {
		return nil, false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[*c.ID]; !ok {
		return nil, false, nil
	}
	stored := clone(c)
	r.rows[*c.ID] = stored
	out := clone(stored)
	return &out, true, nil
}

// clone copies the pointer fields so callers never share state with the store.
func clone(c domain.Customer) domain.Customer {
	if c.ID != nil {
		id := *c.ID
		c.ID = &id
	}
	if c.Age != nil {
		age := *c.Age
		c.Age = &age
	}
	return c
}
