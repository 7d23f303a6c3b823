package auth

// Principal is the request-scoped identity established by the
// authentication gate: the verified email, the granted roles, and the raw
// bearer token. It lives in the request context only and is never shared
// across requests.
type Principal struct {
	Email string
	Roles []string
	Token string
}

// IsAnonymous reports whether no identity was established for the request.
// Anonymous principals never satisfy any role gate.
func (p Principal) IsAnonymous() bool {
	return p.Email == ""
}

// HasRole reports whether the principal holds the given role name.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of the given
// role names.
func (p Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}
