package rbac

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxPermissionNameLength is the maximum length of a permission name.
const MaxPermissionNameLength = 128

// PermissionSetting grants or prohibits a permission.
// IsGranted is true for settings built with the constructors.
type PermissionSetting struct {
	ID        int64     `json:"id"`
	TenantID  *int64    `json:"tenant_id,omitempty"`
	BranchID  *int64    `json:"branch_id,omitempty"`
	Name      string    `json:"name"`
	IsGranted bool      `json:"is_granted"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the permission name.
func (s PermissionSetting) Validate() error {
	if s.Name == "" || len(s.Name) > MaxPermissionNameLength {
		return fmt.Errorf("%w: %q", ErrInvalidPermissionName, s.Name)
	}
	return nil
}

// RolePermissionSetting is a permission setting of a role.
type RolePermissionSetting struct {
	PermissionSetting
	RoleID int64 `json:"role_id"`
}

// NewRolePermissionSetting returns a granting setting for roleID.
func NewRolePermissionSetting(roleID int64, name string) RolePermissionSetting {
	return RolePermissionSetting{
		PermissionSetting: PermissionSetting{Name: name, IsGranted: true},
		RoleID:            roleID,
	}
}

// UserPermissionSetting is a permission setting of a single user, optionally
// limited to a branch.
type UserPermissionSetting struct {
	PermissionSetting
	UserID int64 `json:"user_id"`
}

// NewUserPermissionSetting returns a granting setting for userID.
func NewUserPermissionSetting(userID int64, name string) UserPermissionSetting {
	return UserPermissionSetting{
		PermissionSetting: PermissionSetting{Name: name, IsGranted: true},
		UserID:            userID,
	}
}

// UserIdentifier identifies a user across tenants. A nil TenantID is a host user.
type UserIdentifier struct {
	TenantID *int64 `json:"tenant_id,omitempty"`
	UserID   int64  `json:"user_id"`
}

// String returns "<userID>@<tenantID>", or "<userID>" for host users.
func (u UserIdentifier) String() string {
	if u.TenantID == nil {
		return strconv.FormatInt(u.UserID, 10)
	}
	return strconv.FormatInt(u.UserID, 10) + "@" + strconv.FormatInt(*u.TenantID, 10)
}

// ParseUserIdentifier parses the String form.
func ParseUserIdentifier(s string) (UserIdentifier, error) {
	userPart, tenantPart, hasTenant := strings.Cut(s, "@")
	userID, err := strconv.ParseInt(userPart, 10, 64)
	if err != nil {
		return UserIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidUserIdentifier, s)
	}
	if !hasTenant {
		return UserIdentifier{UserID: userID}, nil
	}
	tenantID, err := strconv.ParseInt(tenantPart, 10, 64)
	if err != nil {
		return UserIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidUserIdentifier, s)
	}
	return UserIdentifier{TenantID: &tenantID, UserID: userID}, nil
}

// UserPermissionCacheItem is the permission snapshot of a user at a branch.
// Permission names are sorted and unique.
type UserPermissionCacheItem struct {
	UserID                int64    `json:"user_id"`
	BranchID              *int64   `json:"branch_id,omitempty"`
	RoleIDs               []int64  `json:"role_ids"`
	GrantedPermissions    []string `json:"granted_permissions"`
	ProhibitedPermissions []string `json:"prohibited_permissions"`
}

// RolePermissionCacheItem is the permission snapshot of a role.
type RolePermissionCacheItem struct {
	RoleID                int64    `json:"role_id"`
	GrantedPermissions    []string `json:"granted_permissions"`
	ProhibitedPermissions []string `json:"prohibited_permissions"`
}
