package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/pkg/pg"
	"github.com/dmitrymomot/tenantkit/svc/tenant"
)

const tenantColumns = `id, tenancy_name, name, edition_id, is_active`

func (s *Store) Insert(ctx context.Context, t *tenant.Tenant) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO tenants (tenancy_name, name, edition_id, is_active)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		t.TenancyName, t.Name, t.EditionID, t.IsActive,
	).Scan(&t.ID)
	if pg.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %q", tenant.ErrTenancyNameTaken, t.TenancyName)
	}
	return err
}

func (s *Store) Update(ctx context.Context, t *tenant.Tenant) error {
	_, err := s.db.Exec(ctx,
		`UPDATE tenants SET tenancy_name = $2, name = $3, edition_id = $4, is_active = $5 WHERE id = $1`,
		t.ID, t.TenancyName, t.Name, t.EditionID, t.IsActive,
	)
	if pg.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %q", tenant.ErrTenancyNameTaken, t.TenancyName)
	}
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return err
}

func (s *Store) FindByID(ctx context.Context, id int64) (*tenant.Tenant, bool, error) {
	return s.findTenant(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
}

func (s *Store) FindByTenancyName(ctx context.Context, tenancyName string) (*tenant.Tenant, bool, error) {
	return s.findTenant(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE tenancy_name = $1`, tenancyName)
}

func (s *Store) ListByEditionID(ctx context.Context, editionID int64) ([]*tenant.Tenant, error) {
	rows, err := s.db.Query(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE edition_id = $1 ORDER BY id`, editionID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTenant)
}

func (s *Store) findTenant(ctx context.Context, query string, arg any) (*tenant.Tenant, bool, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, false, err
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanTenant)
	if pg.IsNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func scanTenant(row pgx.CollectableRow) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.TenancyName, &t.Name, &t.EditionID, &t.IsActive)
	return &t, err
}
