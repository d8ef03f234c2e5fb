// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "slices"

// UserRole is the authorization level of an account. Stored lowercase.
type UserRole string

const (
	RoleMember    UserRole = "member"
	RolePremium   UserRole = "premium"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// roleOrder ranks roles from least to most privileged.
var roleOrder = []UserRole{RoleMember, RolePremium, RoleModerator, RoleAdmin}

// AtLeast reports whether r grants everything target grants. Unknown roles grant nothing.
func (r UserRole) AtLeast(target UserRole) bool {
	rank, required := slices.Index(roleOrder, r), slices.Index(roleOrder, target)
	return rank >= 0 && required >= 0 && rank >= required
}

func (r UserRole) IsValid() bool {
	return slices.Contains(roleOrder, r)
}
