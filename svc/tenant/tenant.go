package tenant

import (
	"fmt"
	"regexp"
)

// MaxTenancyNameLength is the longest accepted tenancy name.
const MaxTenancyNameLength = 64

// TenancyNamePattern is the accepted tenancy name format.
const TenancyNamePattern = `^[a-zA-Z][a-zA-Z0-9_-]{1,}$`

var tenancyNameRe = regexp.MustCompile(TenancyNamePattern)

// Record is the tenant entity managed by Manager.
// An ID of zero marks a record that has not been stored yet.
type Record interface {
	GetID() int64
	SetID(id int64)
	GetTenancyName() string
	GetName() string
	GetEditionID() *int64
	SetEditionID(id *int64)
}

// Tenant is the default Record implementation.
type Tenant struct {
	ID          int64  `json:"id"`
	TenancyName string `json:"tenancy_name"`
	Name        string `json:"name"`
	EditionID   *int64 `json:"edition_id,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func (t *Tenant) GetID() int64           { return t.ID }
func (t *Tenant) SetID(id int64)         { t.ID = id }
func (t *Tenant) GetTenancyName() string { return t.TenancyName }
func (t *Tenant) GetName() string        { return t.Name }
func (t *Tenant) GetEditionID() *int64   { return t.EditionID }
func (t *Tenant) SetEditionID(id *int64) { t.EditionID = id }

// ValidateTenancyName checks the tenancy name format.
func ValidateTenancyName(name string) error {
	if len(name) > MaxTenancyNameLength || !tenancyNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTenancyName, name)
	}
	return nil
}
