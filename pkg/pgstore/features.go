package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tenantkit/pkg/feature"
	"github.com/dmitrymomot/tenantkit/pkg/pg"
)

// CreateEdition stores a new edition and assigns its ID.
func (s *Store) CreateEdition(ctx context.Context, e *feature.Edition) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO editions (name, display_name) VALUES ($1, $2) RETURNING id`,
		e.Name, e.DisplayName,
	).Scan(&e.ID)
}

// DeleteEdition removes an edition and its feature values. Tenants keep
// their edition id until the edition deleted event is handled.
func (s *Store) DeleteEdition(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM editions WHERE id = $1`, id)
	return err
}

// SetEditionValue sets the value of a feature for an edition.
func (s *Store) SetEditionValue(ctx context.Context, editionID int64, name, value string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO edition_features (edition_id, name, value) VALUES ($1, $2, $3)
		 ON CONFLICT (edition_id, name) DO UPDATE SET value = EXCLUDED.value`,
		editionID, name, value,
	)
	return err
}

func (s *Store) EditionValueOrNil(ctx context.Context, editionID int64, name string) (*string, error) {
	var v string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM edition_features WHERE edition_id = $1 AND name = $2`,
		editionID, name,
	).Scan(&v)
	if pg.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) TenantSettings(ctx context.Context, tenantID int64) ([]feature.TenantFeatureSetting, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, value FROM tenant_features WHERE tenant_id = $1 ORDER BY id`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanSetting)
}

func (s *Store) FindTenantSetting(ctx context.Context, tenantID int64, name string) (*feature.TenantFeatureSetting, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, value FROM tenant_features WHERE tenant_id = $1 AND name = $2`,
		tenantID, name,
	)
	if err != nil {
		return nil, err
	}
	st, err := pgx.CollectExactlyOneRow(rows, scanSetting)
	if pg.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) InsertTenantSetting(ctx context.Context, st feature.TenantFeatureSetting) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO tenant_features (tenant_id, name, value) VALUES ($1, $2, $3)`,
		st.TenantID, st.Name, st.Value,
	)
	return err
}

func (s *Store) UpdateTenantSetting(ctx context.Context, st feature.TenantFeatureSetting) error {
	tag, err := s.db.Exec(ctx, `UPDATE tenant_features SET value = $2 WHERE id = $1`, st.ID, st.Value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return feature.ErrFeatureNotFound
	}
	return nil
}

func (s *Store) DeleteTenantSetting(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tenant_features WHERE id = $1`, id)
	return err
}

func (s *Store) DeleteTenantSettings(ctx context.Context, tenantID int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM tenant_features WHERE tenant_id = $1`, tenantID)
	return err
}

func scanSetting(row pgx.CollectableRow) (feature.TenantFeatureSetting, error) {
	var st feature.TenantFeatureSetting
	err := row.Scan(&st.ID, &st.TenantID, &st.Name, &st.Value)
	return st, err
}
