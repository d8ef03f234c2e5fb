package schema

// UserPreferenceTable represents the 'users.preference' table
type UserPreferenceTable struct {
	Table               string
	UserID              string
	PreferredLanguage   string
	PreferredQuality    string
	AutoplayEnabled     string
	SubtitlesEnabled    string
	SubtitleLanguage    string
	AdultContentEnabled string
	EmailNotifications  string
	MarketingEmails     string
	PushNotifications   string
	ParentalPINHash     string
	ContentFilters      string
	CreatedAt           string
	UpdatedAt           string
}

// UserPreference is the schema definition for users.preference
var UserPreference = UserPreferenceTable{
	Table:               "users.preference",
	UserID:              "userid",
	PreferredLanguage:   "preferredlanguage",
	PreferredQuality:    "preferredquality",
	AutoplayEnabled:     "autoplayenabled",
	SubtitlesEnabled:    "subtitlesenabled",
	SubtitleLanguage:    "subtitlelanguage",
	AdultContentEnabled: "adultcontentenabled",
	EmailNotifications:  "emailnotifications",
	MarketingEmails:     "marketingemails",
	PushNotifications:   "pushnotifications",
	ParentalPINHash:     "parentalpinhash",
	ContentFilters:      "contentfilters",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// Columns returns all standard column names
func (t UserPreferenceTable) Columns() []string {
	return []string{
		t.UserID, t.PreferredLanguage, t.PreferredQuality, t.AutoplayEnabled, t.SubtitlesEnabled,
		t.SubtitleLanguage, t.AdultContentEnabled, t.EmailNotifications, t.MarketingEmails,
		t.PushNotifications, t.ParentalPINHash, t.ContentFilters, t.CreatedAt, t.UpdatedAt,
	}
}
