package rbac

import "context"

// PermissionStore persists permission settings and user role assignments.
type PermissionStore interface {
	// UserRoleIDs returns the role ids assigned to userID.
	UserRoleIDs(ctx context.Context, userID int64) ([]int64, error)
	// SetUserRoles replaces the role assignments of userID.
	SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) error

	// UserPermissions returns the settings of userID that apply at branchID:
	// settings without a branch and settings of that branch.
	UserPermissions(ctx context.Context, userID int64, branchID *int64) ([]UserPermissionSetting, error)
	// SaveUserPermission inserts or updates the setting identified by
	// (UserID, BranchID, Name).
	SaveUserPermission(ctx context.Context, s UserPermissionSetting) error
	// DeleteUserPermissions removes every setting of userID.
	DeleteUserPermissions(ctx context.Context, userID int64) error

	// RolePermissions returns the settings of roleID.
	RolePermissions(ctx context.Context, roleID int64) ([]RolePermissionSetting, error)
	// SaveRolePermission inserts or updates the setting identified by (RoleID, Name).
	SaveRolePermission(ctx context.Context, s RolePermissionSetting) error
}
