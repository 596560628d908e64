package tenant

import "context"

// Info is the minimal tenant information needed during resolution.
type Info struct {
	ID          int64  `json:"id"`
	TenancyName string `json:"tenancy_name"`
	Name        string `json:"name"`
}

// Store looks tenants up.
// Implementations return ErrTenantNotFound when nothing matches.
type Store interface {
	Find(ctx context.Context, id int64) (*Info, error)
	FindByTenancyName(ctx context.Context, tenancyName string) (*Info, error)
}

// NullStore is a Store without tenants. Every candidate resolved against it
// is discarded.
type NullStore struct{}

func (NullStore) Find(context.Context, int64) (*Info, error) {
	return nil, ErrTenantNotFound
}

func (NullStore) FindByTenancyName(context.Context, string) (*Info, error) {
	return nil, ErrTenantNotFound
}
