// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Principal is the authenticated identity resolved from a session token.
//
// It is stored in the request context by the Authenticate middleware.
type Principal struct {
	UserID    int64
	Username  string
	Role      UserRole
	SessionID int64

	// Token is the raw bearer token presented with the request.
	Token string
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role.AtLeast(RoleAdmin)
}
