package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/pkg/uow"
)

func (s *Store) UserRoleIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.Query(ctx, `SELECT role_id FROM user_roles WHERE user_id = $1 ORDER BY role_id`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (s *Store) SetUserRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return s.InTx(ctx, func(tx *Store) error {
		if _, err := tx.db.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		if len(roleIDs) == 0 {
			return nil
		}
		_, err := tx.db.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
			userID, roleIDs,
		)
		return err
	})
}

func (s *Store) UserPermissions(ctx context.Context, userID int64, branchID *int64) ([]rbac.UserPermissionSetting, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, branch_id, name, is_granted, created_at, user_id
		 FROM user_permissions
		 WHERE user_id = $1 AND (branch_id IS NULL OR branch_id = $2)
		 ORDER BY id`,
		userID, branchID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (rbac.UserPermissionSetting, error) {
		var p rbac.UserPermissionSetting
		err := row.Scan(&p.ID, &p.TenantID, &p.BranchID, &p.Name, &p.IsGranted, &p.CreatedAt, &p.UserID)
		return p, err
	})
}

// SaveUserPermission stores the setting. Settings without a tenant are
// attributed to the tenant of the active unit of work.
func (s *Store) SaveUserPermission(ctx context.Context, p rbac.UserPermissionSetting) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO user_permissions (tenant_id, branch_id, user_id, name, is_granted)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, branch_id, name) DO UPDATE SET is_granted = EXCLUDED.is_granted`,
		settingTenant(ctx, p.TenantID), p.BranchID, p.UserID, p.Name, p.IsGranted,
	)
	return err
}

func (s *Store) DeleteUserPermissions(ctx context.Context, userID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID)
	return err
}

func (s *Store) RolePermissions(ctx context.Context, roleID int64) ([]rbac.RolePermissionSetting, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, is_granted, created_at, role_id
		 FROM role_permissions WHERE role_id = $1 ORDER BY id`,
		roleID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (rbac.RolePermissionSetting, error) {
		var p rbac.RolePermissionSetting
		err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.IsGranted, &p.CreatedAt, &p.RoleID)
		return p, err
	})
}

func (s *Store) SaveRolePermission(ctx context.Context, p rbac.RolePermissionSetting) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO role_permissions (tenant_id, role_id, name, is_granted)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (role_id, name) DO UPDATE SET is_granted = EXCLUDED.is_granted`,
		settingTenant(ctx, p.TenantID), p.RoleID, p.Name, p.IsGranted,
	)
	return err
}

func settingTenant(ctx context.Context, id *int64) *int64 {
	if id != nil {
		return id
	}
	return uow.TenantID(ctx)
}
