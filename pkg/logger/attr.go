package logger

import "log/slog"

// Error records err under the key "error". Nil errors yield an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TenantID records a nullable tenant id under "tenant_id".
// A nil id yields an empty Attr.
func TenantID(id *int64) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Int64("tenant_id", *id)
}

// BranchID records a nullable branch id under "branch_id".
func BranchID(id *int64) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Int64("branch_id", *id)
}

// UserID records the user identifier under "user_id".
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// Contributor records a resolve contributor name under "contributor".
func Contributor(name string) slog.Attr {
	return slog.String("contributor", name)
}

// Permission records a permission name under "permission".
func Permission(name string) slog.Attr {
	return slog.String("permission", name)
}

// CacheName records a named cache under "cache".
func CacheName(name string) slog.Attr {
	return slog.String("cache", name)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
