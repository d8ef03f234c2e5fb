package schema

// UserActivityLogTable represents the 'users.activitylog' table
type UserActivityLogTable struct {
	Table       string
	ID          string
	UserID      string
	Action      string
	Description string
	Metadata    string
	IPAddress   string
	UserAgent   string
	CreatedAt   string
}

// UserActivityLog is the schema definition for users.activitylog
var UserActivityLog = UserActivityLogTable{
	Table:       "users.activitylog",
	ID:          "id",
	UserID:      "userid",
	Action:      "action",
	Description: "description",
	Metadata:    "metadata",
	IPAddress:   "ipaddress",
	UserAgent:   "useragent",
	CreatedAt:   "createdat",
}

// Columns returns all standard column names
func (t UserActivityLogTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Action, t.Description, t.Metadata, t.IPAddress, t.UserAgent, t.CreatedAt}
}
