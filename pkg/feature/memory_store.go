package feature

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory SettingStore and EditionStore.
// It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	settings []TenantFeatureSetting
	editions map[int64]map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{editions: make(map[int64]map[string]string)}
}

// SetEditionValue sets the value of a feature for an edition.
func (s *MemoryStore) SetEditionValue(editionID int64, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editions[editionID] == nil {
		s.editions[editionID] = make(map[string]string)
	}
	s.editions[editionID][name] = value
}

func (s *MemoryStore) EditionValueOrNil(_ context.Context, editionID int64, name string) (*string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.editions[editionID][name]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *MemoryStore) TenantSettings(_ context.Context, tenantID int64) ([]TenantFeatureSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []TenantFeatureSetting
	for _, st := range s.settings {
		if st.TenantID == tenantID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindTenantSetting(_ context.Context, tenantID int64, name string) (*TenantFeatureSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.settings {
		if st.TenantID == tenantID && st.Name == name {
			return &st, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) InsertTenantSetting(_ context.Context, setting TenantFeatureSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	setting.ID = s.nextID
	s.settings = append(s.settings, setting)
	return nil
}

func (s *MemoryStore) UpdateTenantSetting(_ context.Context, setting TenantFeatureSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, st := range s.settings {
		if st.ID == setting.ID {
			s.settings[i].Value = setting.Value
			return nil
		}
	}
	return ErrFeatureNotFound
}

func (s *MemoryStore) DeleteTenantSetting(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = slices.DeleteFunc(s.settings, func(st TenantFeatureSetting) bool { return st.ID == id })
	return nil
}

func (s *MemoryStore) DeleteTenantSettings(_ context.Context, tenantID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = slices.DeleteFunc(s.settings, func(st TenantFeatureSetting) bool { return st.TenantID == tenantID })
	return nil
}

// Len returns the number of stored tenant overrides.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.settings)
}
