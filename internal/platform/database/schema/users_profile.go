package schema

// UserProfileTable represents the 'users.profile' table
type UserProfileTable struct {
	Table       string
	UserID      string
	FirstName   string
	LastName    string
	DisplayName string
	Bio         string
	AvatarURL   string
	BirthDate   string
	PhoneNumber string
	Country     string
	Timezone    string
	Language    string
	CreatedAt   string
	UpdatedAt   string
}

// UserProfile is the schema definition for users.profile
var UserProfile = UserProfileTable{
	Table:       "users.profile",
	UserID:      "userid",
	FirstName:   "firstname",
	LastName:    "lastname",
	DisplayName: "displayname",
	Bio:         "bio",
	AvatarURL:   "avatarurl",
	BirthDate:   "birthdate",
	PhoneNumber: "phonenumber",
	Country:     "country",
	Timezone:    "timezone",
	Language:    "language",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserProfileTable) Columns() []string {
	return []string{
		t.UserID, t.FirstName, t.LastName, t.DisplayName, t.Bio, t.AvatarURL, t.BirthDate,
		t.PhoneNumber, t.Country, t.Timezone, t.Language, t.CreatedAt, t.UpdatedAt,
	}
}
