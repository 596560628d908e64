package feature

import "context"

// Edition groups feature values shared by its tenants.
type Edition struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// TenantFeatureSetting is a tenant override of a feature value.
type TenantFeatureSetting struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// EditionStore reads edition feature values.
type EditionStore interface {
	// EditionValueOrNil returns the edition value, or nil when the edition
	// does not override the feature.
	EditionValueOrNil(ctx context.Context, editionID int64, name string) (*string, error)
}

// SettingStore persists tenant feature overrides.
type SettingStore interface {
	// TenantSettings returns every override of tenantID.
	TenantSettings(ctx context.Context, tenantID int64) ([]TenantFeatureSetting, error)
	// FindTenantSetting returns the override, or nil.
	FindTenantSetting(ctx context.Context, tenantID int64, name string) (*TenantFeatureSetting, error)
	InsertTenantSetting(ctx context.Context, s TenantFeatureSetting) error
	UpdateTenantSetting(ctx context.Context, s TenantFeatureSetting) error
	DeleteTenantSetting(ctx context.Context, id int64) error
	// DeleteTenantSettings removes every override of tenantID.
	DeleteTenantSettings(ctx context.Context, tenantID int64) error
}

// EditionSource returns the edition a tenant belongs to, or nil.
type EditionSource interface {
	TenantEditionID(ctx context.Context, tenantID int64) (*int64, error)
}
