package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table         string
	ID            string
	Username      string
	UsernameKey   string
	Email         string
	EmailKey      string
	Password      string
	Status        string
	Role          string
	EmailVerified string
	CreatedAt     string
	UpdatedAt     string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:         "users.account",
	ID:            "id",
	Username:      "username",
	UsernameKey:   "usernamekey",
	Email:         "email",
	EmailKey:      "emailkey",
	Password:      "passwordhash",
	Status:        "status",
	Role:          "role",
	EmailVerified: "emailverified",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Status, t.Role,
		t.EmailVerified, t.CreatedAt, t.UpdatedAt,
	}
}
