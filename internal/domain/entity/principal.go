package entity

import "sort"

// AuthorityAdmin is the token that grants administrative privileges.
const AuthorityAdmin = "ROLE_ADMIN"

// Principal is the authenticated view of a user: identity, password hash and
// the set of authorities derived from the user's roles. It is never persisted.
type Principal struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Password    string   `json:"-"`
	Authorities []string `json:"authorities"`
}

// NewAuthoritySet deduplicates and sorts the given tokens.
func NewAuthoritySet(tokens ...string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasAuthority reports whether the principal holds the given token.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal holds AuthorityAdmin.
func (p *Principal) IsAdmin() bool {
	return p.HasAuthority(AuthorityAdmin)
}
