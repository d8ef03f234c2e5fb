package schema

// UserSessionTable represents the 'users.session' table
type UserSessionTable struct {
	Table        string
	ID           string
	UserID       string
	TokenHash    string
	IPAddress    string
	UserAgent    string
	DeviceInfo   string
	LoginAt      string
	LastActivity string
	LogoutAt     string
	IsActive     string
	ExpiresAt    string
}

// UserSession is the schema definition for users.session
var UserSession = UserSessionTable{
	Table:        "users.session",
	ID:           "id",
	UserID:       "userid",
	TokenHash:    "tokenhash",
	IPAddress:    "ipaddress",
	UserAgent:    "useragent",
	DeviceInfo:   "deviceinfo",
	LoginAt:      "loginat",
	LastActivity: "lastactivity",
	LogoutAt:     "logoutat",
	IsActive:     "isactive",
	ExpiresAt:    "expiresat",
}

// Columns returns all standard column names
func (t UserSessionTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.TokenHash, t.IPAddress, t.UserAgent, t.DeviceInfo,
		t.LoginAt, t.LastActivity, t.LogoutAt, t.IsActive, t.ExpiresAt,
	}
}
