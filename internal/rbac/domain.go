package rbac

import "strings"

// Roles issued by the upstream auth endpoint.
const (
	RoleAdmin = "admin"
	RoleSales = "sales"
)

// Normalize lower-cases and trims a role name.
func Normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// Allowed reports whether role is one of allowed. An empty allowed list admits any role.
func Allowed(role string, allowed ...string) bool {
	if len(allowed) == 0 {
		return true
	}
	role = Normalize(role)
	for _, a := range allowed {
		if Normalize(a) == role {
			return true
		}
	}
	return false
}
