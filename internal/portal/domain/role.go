package domain

// Roles a profile or membership can carry. Superadmins operate across
// tenants; admins manage a single organization; learners take training.
const (
	RoleLearner    = "learner"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	switch r {
	case RoleLearner, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}
