// Package auth carries the identity the API gateway resolves during
// authentication. The gateway forwards it as two plain headers; downstream
// services trust these headers unconditionally.
package auth

import "net/http"

const (
	// UserHeader carries the authenticated username.
	UserHeader = "X-Auth-User"
	// RoleHeader carries the authenticated role.
	RoleHeader = "X-Auth-Role"
)

// Identity is the authentication context re-derived from forwarded headers.
type Identity struct {
	Username string
	Role     string
}

// FromRequest extracts the forwarded identity from request headers.
// ok is false when no identity was forwarded.
func FromRequest(r *http.Request) (Identity, bool) {
	username := r.Header.Get(UserHeader)
	if username == "" {
		return Identity{}, false
	}
	return Identity{
		Username: username,
		Role:     r.Header.Get(RoleHeader),
	}, true
}

// SetHeaders attaches the identity to an outbound request.
func SetHeaders(h http.Header, id Identity) {
	h.Set(UserHeader, id.Username)
	if id.Role != "" {
		h.Set(RoleHeader, id.Role)
	}
}
