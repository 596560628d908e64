package tenant_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type memStore struct {
	mu      sync.Mutex
	byID    map[int64]*tenant.Info
	err     error
	finds   int
	byNames int
}

func newMemStore(infos ...*tenant.Info) *memStore {
	s := &memStore{byID: make(map[int64]*tenant.Info)}
	for _, info := range infos {
		s.byID[info.ID] = info
	}
	return s
}

func (s *memStore) Find(_ context.Context, id int64) (*tenant.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if s.err != nil {
		return nil, s.err
	}
	info, ok := s.byID[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return info, nil
}

func (s *memStore) FindByTenancyName(_ context.Context, name string) (*tenant.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byNames++
	if s.err != nil {
		return nil, s.err
	}
	for _, info := range s.byID {
		if info.TenancyName == name {
			return info, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (s *memStore) findCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finds
}

func ptr(v int64) *int64 { return &v }

// fixed returns a named contributor returning id and counting its calls.
func fixed(name string, id *int64, calls *int) tenant.Named[tenant.Contributor] {
	return tenant.Named[tenant.Contributor]{
		Name: name,
		New: func() tenant.Contributor {
			return tenant.ContributorFunc(func(context.Context) (*int64, error) {
				*calls++
				return id, nil
			})
		},
	}
}

func fixedBranch(name string, id *int64, calls *int) tenant.Named[tenant.BranchContributor] {
	return tenant.Named[tenant.BranchContributor]{
		Name: name,
		New: func() tenant.BranchContributor {
			return tenant.BranchContributorFunc(func(context.Context) (*int64, error) {
				*calls++
				return id, nil
			})
		},
	}
}
