package store

// Built-in objects created at startup. The admin target represents the
// gateway's own administrative API; membership in the admin role grants
// access to it.
const (
	BuiltinAdminRoleName   = "omnitron:admin"
	BuiltinAdminTargetName = "admin"
)
