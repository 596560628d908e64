package rbac

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-memory PermissionStore.
// It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	roles  map[int64][]int64
	users  []UserPermissionSetting
	perms  []RolePermissionSetting
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{roles: make(map[int64][]int64), now: time.Now}
}

func (s *MemoryStore) UserRoleIDs(_ context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.roles[userID]), nil
}

func (s *MemoryStore) SetUserRoles(_ context.Context, userID int64, roleIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(roleIDs) == 0 {
		delete(s.roles, userID)
		return nil
	}
	s.roles[userID] = slices.Clone(roleIDs)
	return nil
}

func (s *MemoryStore) UserPermissions(_ context.Context, userID int64, branchID *int64) ([]UserPermissionSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []UserPermissionSetting
	for _, p := range s.users {
		if p.UserID == userID && (p.BranchID == nil || sameID(p.BranchID, branchID)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveUserPermission(_ context.Context, setting UserPermissionSetting) error {
	if err := setting.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.users {
		if p.UserID == setting.UserID && sameID(p.BranchID, setting.BranchID) && p.Name == setting.Name {
			s.users[i].IsGranted = setting.IsGranted
			return nil
		}
	}
	s.nextID++
	setting.ID = s.nextID
	setting.CreatedAt = s.now()
	s.users = append(s.users, setting)
	return nil
}

func (s *MemoryStore) DeleteUserPermissions(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = slices.DeleteFunc(s.users, func(p UserPermissionSetting) bool { return p.UserID == userID })
	return nil
}

func (s *MemoryStore) RolePermissions(_ context.Context, roleID int64) ([]RolePermissionSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RolePermissionSetting
	for _, p := range s.perms {
		if p.RoleID == roleID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveRolePermission(_ context.Context, setting RolePermissionSetting) error {
	if err := setting.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.perms {
		if p.RoleID == setting.RoleID && p.Name == setting.Name {
			s.perms[i].IsGranted = setting.IsGranted
			return nil
		}
	}
	s.nextID++
	setting.ID = s.nextID
	setting.CreatedAt = s.now()
	s.perms = append(s.perms, setting)
	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
