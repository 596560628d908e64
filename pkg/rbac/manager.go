package rbac

import (
	"context"
	"log/slog"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/eventbus"
	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

// Named caches used by Manager.
const (
	UserPermissionCacheName = "tenantkit.user_permissions"
	RolePermissionCacheName = "tenantkit.role_permissions"
)

// Manager is the cache-backed UserManager and RoleManager.
type Manager struct {
	store  PermissionStore
	users  *cache.Typed[*UserPermissionCacheItem]
	roles  *cache.Typed[*RolePermissionCacheItem]
	bus    *eventbus.Bus
	logger *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithEventBus publishes change events on bus and invalidates snapshots
// when other components publish them.
func WithEventBus(bus *eventbus.Bus) ManagerOption {
	return func(m *Manager) { m.bus = bus }
}

// WithManagerLogger sets the logger.
func WithManagerLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// NewManager creates a Manager. A nil caches means in-memory caches.
func NewManager(store PermissionStore, caches *cache.Manager, opts ...ManagerOption) *Manager {
	if caches == nil {
		caches = cache.NewManager(nil)
	}
	m := &Manager{
		store:  store,
		users:  cache.NewTyped[*UserPermissionCacheItem](caches.GetCache(UserPermissionCacheName)),
		roles:  cache.NewTyped[*RolePermissionCacheItem](caches.GetCache(RolePermissionCacheName)),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus != nil {
		m.subscribe(m.bus)
	}
	return m
}

// IsGranted decides permission for userID at branchID.
func (m *Manager) IsGranted(ctx context.Context, userID int64, permission string, branchID *int64) (bool, error) {
	item, err := m.UserPermissionCacheItem(ctx, userID, branchID)
	if err != nil || item == nil {
		return false, err
	}

	if slices.Contains(item.ProhibitedPermissions, permission) {
		return false, nil
	}
	if slices.Contains(item.GrantedPermissions, permission) {
		return true, nil
	}

	for _, roleID := range item.RoleIDs {
		role, err := m.RolePermissionCacheItem(ctx, roleID)
		if err != nil {
			return false, err
		}
		if slices.Contains(role.GrantedPermissions, permission) && !slices.Contains(role.ProhibitedPermissions, permission) {
			return true, nil
		}
	}
	return false, nil
}

// UserPermissionCacheItem returns the snapshot of userID at branchID.
func (m *Manager) UserPermissionCacheItem(ctx context.Context, userID int64, branchID *int64) (*UserPermissionCacheItem, error) {
	return m.users.GetOrAdd(ctx, userKey(userID, branchID), func(ctx context.Context) (*UserPermissionCacheItem, error) {
		roleIDs, err := m.store.UserRoleIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		settings, err := m.store.UserPermissions(ctx, userID, branchID)
		if err != nil {
			return nil, err
		}

		item := &UserPermissionCacheItem{
			UserID:   userID,
			BranchID: branchID,
			RoleIDs:  sortedUnique(roleIDs),
		}
		item.GrantedPermissions, item.ProhibitedPermissions = split(settings, func(s UserPermissionSetting) PermissionSetting {
			return s.PermissionSetting
		})
		return item, nil
	})
}

// RolePermissionCacheItem returns the snapshot of roleID.
func (m *Manager) RolePermissionCacheItem(ctx context.Context, roleID int64) (*RolePermissionCacheItem, error) {
	return m.roles.GetOrAdd(ctx, strconv.FormatInt(roleID, 10), func(ctx context.Context) (*RolePermissionCacheItem, error) {
		settings, err := m.store.RolePermissions(ctx, roleID)
		if err != nil {
			return nil, err
		}
		item := &RolePermissionCacheItem{RoleID: roleID}
		item.GrantedPermissions, item.ProhibitedPermissions = split(settings, func(s RolePermissionSetting) PermissionSetting {
			return s.PermissionSetting
		})
		return item, nil
	})
}

// GrantedPermissions lists the permissions roleID grants.
func (m *Manager) GrantedPermissions(ctx context.Context, roleID int64) ([]string, error) {
	item, err := m.RolePermissionCacheItem(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return item.GrantedPermissions, nil
}

// GrantUserPermission grants permission to userID at branchID (nil for every branch).
func (m *Manager) GrantUserPermission(ctx context.Context, userID int64, branchID *int64, permission string) error {
	return m.saveUserPermission(ctx, userID, branchID, permission, true)
}

// ProhibitUserPermission prohibits permission for userID at branchID,
// overriding grants from roles.
func (m *Manager) ProhibitUserPermission(ctx context.Context, userID int64, branchID *int64, permission string) error {
	return m.saveUserPermission(ctx, userID, branchID, permission, false)
}

// ResetUserPermissions removes every user-level setting of userID.
func (m *Manager) ResetUserPermissions(ctx context.Context, userID int64) error {
	if err := m.store.DeleteUserPermissions(ctx, userID); err != nil {
		return err
	}
	return m.userPermissionsChanged(ctx, userID)
}

// SetUserRoles replaces the roles of userID.
func (m *Manager) SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	if err := m.store.SetUserRoles(ctx, userID, roleIDs); err != nil {
		return err
	}
	if err := m.invalidateUser(ctx, userID); err != nil {
		return err
	}
	return eventbus.Publish(ctx, m.bus, UserRolesChanged{UserID: userID})
}

// GrantRolePermission grants permission to roleID.
func (m *Manager) GrantRolePermission(ctx context.Context, roleID int64, permission string) error {
	return m.saveRolePermission(ctx, roleID, permission, true)
}

// ProhibitRolePermission prohibits permission for roleID.
func (m *Manager) ProhibitRolePermission(ctx context.Context, roleID int64, permission string) error {
	return m.saveRolePermission(ctx, roleID, permission, false)
}

func (m *Manager) saveUserPermission(ctx context.Context, userID int64, branchID *int64, permission string, granted bool) error {
	setting := NewUserPermissionSetting(userID, permission)
	setting.BranchID = branchID
	setting.IsGranted = granted
	if err := m.store.SaveUserPermission(ctx, setting); err != nil {
		return err
	}
	return m.userPermissionsChanged(ctx, userID)
}

func (m *Manager) userPermissionsChanged(ctx context.Context, userID int64) error {
	if err := m.invalidateUser(ctx, userID); err != nil {
		return err
	}
	return eventbus.Publish(ctx, m.bus, UserPermissionsChanged{UserID: userID})
}

func (m *Manager) saveRolePermission(ctx context.Context, roleID int64, permission string, granted bool) error {
	setting := NewRolePermissionSetting(roleID, permission)
	setting.IsGranted = granted
	if err := m.store.SaveRolePermission(ctx, setting); err != nil {
		return err
	}
	if err := m.invalidateRole(ctx, roleID); err != nil {
		return err
	}
	return eventbus.Publish(ctx, m.bus, RolePermissionsChanged{RoleID: roleID})
}

// invalidateUser drops the snapshots of userID at every branch.
func (m *Manager) invalidateUser(ctx context.Context, userID int64) error {
	if err := m.users.RemoveByPrefix(ctx, userKeyPrefix(userID)); err != nil {
		m.logger.ErrorContext(ctx, "invalidate user permissions",
			logger.UserID(userID),
			logger.CacheName(UserPermissionCacheName),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func (m *Manager) invalidateRole(ctx context.Context, roleID int64) error {
	if err := m.roles.Remove(ctx, strconv.FormatInt(roleID, 10)); err != nil {
		m.logger.ErrorContext(ctx, "invalidate role permissions",
			slog.Int64("role_id", roleID),
			logger.CacheName(RolePermissionCacheName),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func (m *Manager) subscribe(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, func(ctx context.Context, e UserRolesChanged) error {
		return m.invalidateUser(ctx, e.UserID)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e UserPermissionsChanged) error {
		return m.invalidateUser(ctx, e.UserID)
	})
	eventbus.Subscribe(bus, func(ctx context.Context, e RolePermissionsChanged) error {
		return m.invalidateRole(ctx, e.RoleID)
	})
}

// userKey is "<userID>@<branchID>", with an empty branch for branch-less checks.
func userKey(userID int64, branchID *int64) string {
	if branchID == nil {
		return userKeyPrefix(userID)
	}
	return userKeyPrefix(userID) + strconv.FormatInt(*branchID, 10)
}

func userKeyPrefix(userID int64) string {
	return strconv.FormatInt(userID, 10) + "@"
}

func split[S any](settings []S, setting func(S) PermissionSetting) (granted, prohibited []string) {
	granted, prohibited = []string{}, []string{}
	for _, s := range settings {
		p := setting(s)
		if p.IsGranted {
			granted = append(granted, p.Name)
		} else {
			prohibited = append(prohibited, p.Name)
		}
	}
	return sortedUnique(granted), sortedUnique(prohibited)
}

func sortedUnique[T int64 | string](items []T) []T {
	out := lo.Uniq(items)
	slices.Sort(out)
	return out
}
