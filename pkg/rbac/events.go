package rbac

// UserRolesChanged is published when the roles of a user change.
type UserRolesChanged struct {
	UserID int64
}

// UserPermissionsChanged is published when permission settings of a user change.
type UserPermissionsChanged struct {
	UserID int64
}

// RolePermissionsChanged is published when permission settings of a role change.
type RolePermissionsChanged struct {
	RoleID int64
}
