// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages the viewer-facing side of an account: the public profile,
playback and notification preferences, and the parental control PIN.

Both records are 1:1 with users.account and are created lazily. Reading an
account that never saved either one returns the defaults below.

# Architecture

  - Entities: Profile, Preferences.
  - Domain: Depends on the auth package only through [UserLookup].
  - Audit: Profile and PIN changes append PROFILE_UPDATE entries.
*/
package account

import (
	"time"

	"github.com/taibuivan/streamvault/pkg/slice"
)

// # Playback Quality

// VideoQuality is the preferred streaming resolution.
type VideoQuality string

const (
	QualityAuto VideoQuality = "AUTO"
	QualitySD   VideoQuality = "SD"
	QualityHD   VideoQuality = "HD"
	QualityFHD  VideoQuality = "FHD"
	QualityUHD  VideoQuality = "UHD"
)

// IsValid reports whether the quality is one of the supported tiers.
func (q VideoQuality) IsValid() bool {
	switch q {
	case QualityAuto, QualitySD, QualityHD, QualityFHD, QualityUHD:
		return true
	}
	return false
}

// # Defaults

const (
	// DefaultLanguage is used for both the UI language and subtitles.
	DefaultLanguage = "id"

	// PINMinLength and PINMaxLength bound the numeric parental PIN.
	PINMinLength = 4
	PINMaxLength = 6

	// maxContentFilters caps the content filter list of one account.
	maxContentFilters = 50

	// BirthDateLayout is the wire and storage format of [Profile.BirthDate].
	BirthDateLayout = time.DateOnly
)

// # Profile

// Profile holds the optional identity details shown to other viewers.
type Profile struct {
	UserID      int64     `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	BirthDate   string    `json:"birth_date"`
	PhoneNumber string    `json:"phone_number"`
	Country     string    `json:"country"`
	Timezone    string    `json:"timezone"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultProfile returns the profile of an account that has not saved one yet.
func DefaultProfile(userID int64, username string, now time.Time) *Profile {
	return &Profile{
		UserID:      userID,
		DisplayName: username,
		Language:    DefaultLanguage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ProfileChanges is a partial update. Nil fields are left untouched.
type ProfileChanges struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	BirthDate   *string
	PhoneNumber *string
	Country     *string
	Timezone    *string
	Language    *string
}

/*
Apply returns the profile with changes merged in.

Parameters:
  - changes: ProfileChanges
  - now: time.Time

Returns:
  - Profile: The merged copy (UpdatedAt only moves when something changed)
  - []string: JSON names of the fields whose value actually changed
*/
func (p Profile) Apply(changes ProfileChanges, now time.Time) (Profile, []string) {
	var changed []string

	set := func(name string, target *string, value *string) {
		if value == nil || *target == *value {
			return
		}
		*target = *value
		changed = append(changed, name)
	}

	set(FieldFirstName, &p.FirstName, changes.FirstName)
	set(FieldLastName, &p.LastName, changes.LastName)
	set(FieldDisplayName, &p.DisplayName, changes.DisplayName)
	set(FieldBio, &p.Bio, changes.Bio)
	set(FieldAvatarURL, &p.AvatarURL, changes.AvatarURL)
	set(FieldBirthDate, &p.BirthDate, changes.BirthDate)
	set(FieldPhoneNumber, &p.PhoneNumber, changes.PhoneNumber)
	set(FieldCountry, &p.Country, changes.Country)
	set(FieldTimezone, &p.Timezone, changes.Timezone)
	set(FieldLanguage, &p.Language, changes.Language)

	if len(changed) > 0 {
		p.UpdatedAt = now
	}
	return p, changed
}

// # Preferences

// Preferences are the playback, content and notification settings of an account.
type Preferences struct {
	UserID              int64        `json:"user_id"`
	PreferredLanguage   string       `json:"preferred_language"`
	PreferredQuality    VideoQuality `json:"preferred_quality"`
	AutoplayEnabled     bool         `json:"autoplay_enabled"`
	SubtitlesEnabled    bool         `json:"subtitles_enabled"`
	SubtitleLanguage    string       `json:"subtitle_language"`
	AdultContentEnabled bool         `json:"adult_content_enabled"`
	EmailNotifications  bool         `json:"email_notifications"`
	MarketingEmails     bool         `json:"marketing_emails"`
	PushNotifications   bool         `json:"push_notifications"`
	ContentFilters      []string     `json:"content_filters"`
	PINHash             string       `json:"-"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// DefaultPreferences returns the settings of an account that has not saved any.
func DefaultPreferences(userID int64, now time.Time) *Preferences {
	return &Preferences{
		UserID:             userID,
		PreferredLanguage:  DefaultLanguage,
		PreferredQuality:   QualityAuto,
		AutoplayEnabled:    true,
		SubtitleLanguage:   DefaultLanguage,
		EmailNotifications: true,
		PushNotifications:  true,
		ContentFilters:     []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ParentalControlEnabled reports whether a PIN is set.
func (p Preferences) ParentalControlEnabled() bool {
	return p.PINHash != ""
}

// PreferenceChanges is a partial update. Nil fields are left untouched.
type PreferenceChanges struct {
	PreferredLanguage   *string
	PreferredQuality    *VideoQuality
	AutoplayEnabled     *bool
	SubtitlesEnabled    *bool
	SubtitleLanguage    *string
	AdultContentEnabled *bool
	EmailNotifications  *bool
	MarketingEmails     *bool
	PushNotifications   *bool
	ContentFilters      []string
}

// EnablesAdultContent reports whether applying changes would turn adult content on.
func (p Preferences) EnablesAdultContent(changes PreferenceChanges) bool {
	return !p.AdultContentEnabled && changes.AdultContentEnabled != nil && *changes.AdultContentEnabled
}

// Apply returns the preferences with changes merged in.
func (p Preferences) Apply(changes PreferenceChanges, now time.Time) Preferences {
	if changes.PreferredLanguage != nil {
		p.PreferredLanguage = *changes.PreferredLanguage
	}
	if changes.PreferredQuality != nil {
		p.PreferredQuality = *changes.PreferredQuality
	}
	if changes.AutoplayEnabled != nil {
		p.AutoplayEnabled = *changes.AutoplayEnabled
	}
	if changes.SubtitlesEnabled != nil {
		p.SubtitlesEnabled = *changes.SubtitlesEnabled
	}
	if changes.SubtitleLanguage != nil {
		p.SubtitleLanguage = *changes.SubtitleLanguage
	}
	if changes.AdultContentEnabled != nil {
		p.AdultContentEnabled = *changes.AdultContentEnabled
	}
	if changes.EmailNotifications != nil {
		p.EmailNotifications = *changes.EmailNotifications
	}
	if changes.MarketingEmails != nil {
		p.MarketingEmails = *changes.MarketingEmails
	}
	if changes.PushNotifications != nil {
		p.PushNotifications = *changes.PushNotifications
	}
	if changes.ContentFilters != nil {
		p.ContentFilters = slice.Unique(changes.ContentFilters)
	}

	p.UpdatedAt = now
	return p
}

// WithPIN sets the parental PIN hash. Turning parental control on always disables adult content.
func (p Preferences) WithPIN(hash string, now time.Time) Preferences {
	p.PINHash = hash
	p.AdultContentEnabled = false
	p.UpdatedAt = now
	return p
}

// WithoutPIN clears the parental PIN.
func (p Preferences) WithoutPIN(now time.Time) Preferences {
	p.PINHash = ""
	p.UpdatedAt = now
	return p
}
