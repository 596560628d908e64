package tenant

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// Repository persists tenant records.
type Repository[T Record] interface {
	// Insert stores a new record and assigns its ID.
	Insert(ctx context.Context, t T) error
	Update(ctx context.Context, t T) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (T, bool, error)
	FindByTenancyName(ctx context.Context, tenancyName string) (T, bool, error)
	ListByEditionID(ctx context.Context, editionID int64) ([]T, error)
}

// MemoryRepository is an in-memory Repository.
// It stores the records it is given, so callers share them.
type MemoryRepository[T Record] struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]T
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository[T Record]() *MemoryRepository[T] {
	return &MemoryRepository[T]{records: make(map[int64]T)}
}

func (r *MemoryRepository[T]) Insert(_ context.Context, t T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t.SetID(r.nextID)
	r.records[t.GetID()] = t
	return nil
}

func (r *MemoryRepository[T]) Update(_ context.Context, t T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[t.GetID()] = t
	return nil
}

func (r *MemoryRepository[T]) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *MemoryRepository[T]) FindByID(_ context.Context, id int64) (T, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.records[id]
	return t, ok, nil
}

func (r *MemoryRepository[T]) FindByTenancyName(_ context.Context, tenancyName string) (T, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.records {
		if t.GetTenancyName() == tenancyName {
			return t, true, nil
		}
	}
	var zero T
	return zero, false, nil
}

func (r *MemoryRepository[T]) ListByEditionID(_ context.Context, editionID int64) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []T
	for _, t := range r.records {
		if id := t.GetEditionID(); id != nil && *id == editionID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(a.GetID(), b.GetID()) })
	return out, nil
}
