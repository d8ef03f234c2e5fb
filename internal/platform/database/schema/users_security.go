package schema

// UserSecurityTable represents the 'users.security' table
type UserSecurityTable struct {
	Table               string
	UserID              string
	FailedLoginAttempts string
	LastFailedLogin     string
	AccountLockedUntil  string
	PasswordChangedAt   string
	TwoFactorEnabled    string
	CreatedAt           string
	UpdatedAt           string
}

// UserSecurity is the schema definition for users.security
var UserSecurity = UserSecurityTable{
	Table:               "users.security",
	UserID:              "userid",
	FailedLoginAttempts: "failedloginattempts",
	LastFailedLogin:     "lastfailedlogin",
	AccountLockedUntil:  "accountlockeduntil",
	PasswordChangedAt:   "passwordchangedat",
	TwoFactorEnabled:    "twofactorenabled",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// Columns returns all standard column names
func (t UserSecurityTable) Columns() []string {
	return []string{
		t.UserID, t.FailedLoginAttempts, t.LastFailedLogin, t.AccountLockedUntil,
		t.PasswordChangedAt, t.TwoFactorEnabled, t.CreatedAt, t.UpdatedAt,
	}
}
