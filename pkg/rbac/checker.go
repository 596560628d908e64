package rbac

import (
	"context"
	"log/slog"

	"github.com/samber/lo"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/uow"
)

// Checker answers permission questions.
type Checker interface {
	// IsGranted checks the session user at the session branch.
	// Without a user it returns false.
	IsGranted(ctx context.Context, permission string) (bool, error)

	// IsGrantedFor checks user running as user.TenantID.
	IsGrantedFor(ctx context.Context, user UserIdentifier, permission string, branchID *int64) (bool, error)

	// IsUserGranted checks userID in the current tenant.
	IsUserGranted(ctx context.Context, userID int64, permission string, branchID *int64) (bool, error)

	// GrantedPermissions lists every permission granted to userID at the
	// session branch, through roles or directly. Order is not significant.
	GrantedPermissions(ctx context.Context, userID int64) ([]string, error)
}

// UserManager decides user permissions.
type UserManager interface {
	IsGranted(ctx context.Context, userID int64, permission string, branchID *int64) (bool, error)
	// UserPermissionCacheItem returns the snapshot, or nil for unknown users.
	UserPermissionCacheItem(ctx context.Context, userID int64, branchID *int64) (*UserPermissionCacheItem, error)
}

// RoleManager lists role permissions.
type RoleManager interface {
	GrantedPermissions(ctx context.Context, roleID int64) ([]string, error)
}

// PermissionChecker is the Checker backed by a UserManager and a RoleManager.
type PermissionChecker struct {
	users   UserManager
	roles   RoleManager
	session Session
	logger  *slog.Logger
}

// CheckerOption configures a PermissionChecker.
type CheckerOption func(*PermissionChecker)

// WithSession sets the session source. The default is ContextSession.
func WithSession(s Session) CheckerOption {
	return func(c *PermissionChecker) {
		if s != nil {
			c.session = s
		}
	}
}

// WithCheckerLogger sets the logger.
func WithCheckerLogger(log *slog.Logger) CheckerOption {
	return func(c *PermissionChecker) {
		if log != nil {
			c.logger = log
		}
	}
}

// NewPermissionChecker creates a PermissionChecker.
func NewPermissionChecker(users UserManager, roles RoleManager, opts ...CheckerOption) *PermissionChecker {
	c := &PermissionChecker{
		users:   users,
		roles:   roles,
		session: ContextSession{},
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PermissionChecker) IsGranted(ctx context.Context, permission string) (bool, error) {
	userID, ok := c.session.UserID(ctx)
	if !ok {
		return false, nil
	}
	return c.IsUserGranted(ctx, userID, permission, c.session.BranchID(ctx))
}

func (c *PermissionChecker) IsUserGranted(ctx context.Context, userID int64, permission string, branchID *int64) (bool, error) {
	granted, err := c.users.IsGranted(ctx, userID, permission, branchID)
	if err != nil {
		return false, err
	}
	c.logger.DebugContext(ctx, "permission checked",
		logger.UserID(userID),
		logger.BranchID(branchID),
		logger.Permission(permission),
		slog.Bool("granted", granted),
	)
	return granted, nil
}

func (c *PermissionChecker) IsGrantedFor(ctx context.Context, user UserIdentifier, permission string, branchID *int64) (bool, error) {
	return c.IsUserGranted(uow.SetTenantID(ctx, user.TenantID), user.UserID, permission, branchID)
}

func (c *PermissionChecker) GrantedPermissions(ctx context.Context, userID int64) ([]string, error) {
	item, err := c.users.UserPermissionCacheItem(ctx, userID, c.session.BranchID(ctx))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return []string{}, nil
	}

	var permissions []string
	for _, roleID := range item.RoleIDs {
		granted, err := c.roles.GrantedPermissions(ctx, roleID)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, granted...)
	}
	return lo.Union(permissions, item.GrantedPermissions), nil
}

// Authorize returns ErrInsufficientPermissions unless the session user has
// every permission, and ErrNoUserInContext without a user.
func Authorize(ctx context.Context, c Checker, session Session, permissions ...string) error {
	if _, ok := session.UserID(ctx); !ok {
		return ErrNoUserInContext
	}
	for _, p := range permissions {
		granted, err := c.IsGranted(ctx, p)
		if err != nil {
			return err
		}
		if !granted {
			return ErrInsufficientPermissions
		}
	}
	return nil
}
