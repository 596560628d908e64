package tenant

// Contributor names registered by RegisterHTTPContributors.
const (
	ContributorHeaderID     = "header_id"
	ContributorHeaderCode   = "header_code"
	ContributorCookie       = "cookie"
	ContributorSubdomain    = "subdomain"
	ContributorPath         = "path"
	ContributorBranchHeader = "branch_header"
)

// Config orders the contributors and names the request keys they read.
// Load it with config.Load.
type Config struct {
	// TenantResolvers lists tenant contributor names in priority order.
	TenantResolvers []string `env:"TENANT_RESOLVERS" envSeparator:"," envDefault:"header_id,header_code,cookie"`
	// BranchResolvers lists branch contributor names in priority order.
	BranchResolvers []string `env:"TENANT_BRANCH_RESOLVERS" envSeparator:"," envDefault:"branch_header"`

	TenantIDResolveKey   string `env:"TENANT_ID_RESOLVE_KEY" envDefault:"X-Tenant-ID"`
	TenantCodeResolveKey string `env:"TENANT_CODE_RESOLVE_KEY" envDefault:"X-Tenant-Code"`
	BranchIDResolveKey   string `env:"TENANT_BRANCH_ID_RESOLVE_KEY" envDefault:"X-Branch-ID"`

	// SubdomainSuffix is stripped from the host before the subdomain is read (e.g. ".saas.com").
	SubdomainSuffix string `env:"TENANT_SUBDOMAIN_SUFFIX"`
	// PathPosition is the 1-based path segment holding the tenancy name.
	PathPosition int `env:"TENANT_PATH_POSITION" envDefault:"1"`
}

// DefaultConfig returns the configuration used when nothing is set in the environment.
func DefaultConfig() Config {
	return Config{
		TenantResolvers:      []string{ContributorHeaderID, ContributorHeaderCode, ContributorCookie},
		BranchResolvers:      []string{ContributorBranchHeader},
		TenantIDResolveKey:   "X-Tenant-ID",
		TenantCodeResolveKey: "X-Tenant-Code",
		BranchIDResolveKey:   "X-Branch-ID",
		PathPosition:         1,
	}
}
