package sdk

import "slices"

// DefaultRoles is assigned when the provider reports no role claims.
var DefaultRoles = []string{"anonymous", "authenticated"}

// Principal is the normalized "who is calling" produced by Session Bootstrap.
// It is built once per bootstrap and must be treated as read-only.
type Principal struct {
	IdentityProvider string
	UserID           string
	UserDetails      string
	Roles            []string
	AccessToken      string
	IDToken          string
}

// HasRole reports whether role is among the principal's roles.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, role)
}

// LocalPrincipal is used when authentication is disabled in the settings.
func LocalPrincipal() *Principal {
	return &Principal{
		IdentityProvider: "local",
		UserID:           "local-user",
		UserDetails:      "dev@local",
		Roles:            slices.Clone(DefaultRoles),
	}
}

// implicitPrincipal stands in when only a sign-in token is known.
func implicitPrincipal(token string) *Principal {
	return &Principal{
		IdentityProvider: "aad",
		UserID:           "user@implicit.flow",
		UserDetails:      "Utente (Implicit)",
		Roles:            slices.Clone(DefaultRoles),
		IDToken:          token,
	}
}

func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return slices.Clone(DefaultRoles)
	}
	return out
}
