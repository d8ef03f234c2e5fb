// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

// # Field Names

const (
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldDisplayName      = "display_name"
	FieldBio              = "bio"
	FieldAvatarURL        = "avatar_url"
	FieldBirthDate        = "birth_date"
	FieldPhoneNumber      = "phone_number"
	FieldCountry          = "country"
	FieldTimezone         = "timezone"
	FieldLanguage         = "language"
	FieldPreferredQuality = "preferred_quality"
	FieldContentFilters   = "content_filters"
	FieldParentalPIN      = "parental_pin"
	FieldNewPIN           = "new_pin"
	FieldPIN              = "pin"
	FieldVerified         = "verified"
)
