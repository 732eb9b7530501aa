package roles

// Role codes assigned by the server. The client only ever tests membership;
// it never grants or revokes roles.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Tier is the capability level derived from a user's role set.
type Tier int

const (
	// TierUser is the default tier for any authenticated user.
	TierUser Tier = iota
	// TierAdmin covers moderation and user administration.
	TierAdmin
	// TierSuperAdmin covers everything TierAdmin does plus admin-account management.
	TierSuperAdmin
)

// TierOf maps a role set to a capability tier. A nil or empty set is a
// plain user. Both the session store and the route guard derive their
// admin flags through this single predicate.
func TierOf(roleCodes []string) Tier {
	tier := TierUser
	for _, code := range roleCodes {
		switch code {
		case RoleSuperAdmin:
			return TierSuperAdmin
		case RoleAdmin:
			tier = TierAdmin
		}
	}
	return tier
}

// IsAdmin reports whether the tier grants admin capabilities.
// Super admins are admins.
func (t Tier) IsAdmin() bool {
	return t >= TierAdmin
}

// IsSuperAdmin reports whether the tier grants super-admin capabilities.
func (t Tier) IsSuperAdmin() bool {
	return t >= TierSuperAdmin
}
