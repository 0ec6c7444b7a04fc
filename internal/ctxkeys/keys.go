// Package ctxkeys defines typed context keys shared between middleware and handlers.
// This avoids import cycles: both middleware and handlers import this package,
// but neither imports the other for context key types.
package ctxkeys

import "context"

// Key is a typed string used as context key to prevent collisions.
type Key string

const (
	UserID    Key = "userID"
	UserRole  Key = "userRole"
	FirmScope Key = "firmScope"
)

// GetFirmScope returns the list of firm IDs the current user has access to.
// Returns nil for operator/admin/super_admin (meaning "all firms").
func GetFirmScope(ctx context.Context) []string {
	v := ctx.Value(FirmScope)
	if v == nil {
		return nil
	}
	ids, _ := v.([]string)
	return ids
}

// IsGlobalScope returns true if the user has access to all firms.
func IsGlobalScope(ctx context.Context) bool {
	return ctx.Value(FirmScope) == nil
}

// ValidRoles lists all valid role strings.
// "customer" is a portal user bound to one or more firms.
var ValidRoles = map[string]bool{
	"viewer":      true,
	"customer":    true,
	"operator":    true,
	"admin":       true,
	"super_admin": true,
}

// RoleLevel maps role names to permission levels.
var RoleLevel = map[string]int{
	"viewer":      1,
	"customer":    2,
	"operator":    3,
	"admin":       4,
	"super_admin": 5,
}
