// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/streamvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/streamvault/internal/platform/request"
	"github.com/taibuivan/streamvault/internal/platform/respond"
	"github.com/taibuivan/streamvault/internal/platform/validate"
	"github.com/taibuivan/streamvault/internal/users/activity"
)

// Handler implements the HTTP layer for the caller's own account settings.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the /me router. Every endpoint requires an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	// Profile
	router.Get("/profile", handler.getProfile)
	router.Patch("/profile", handler.updateProfile)

	// Preferences
	router.Get("/preferences", handler.getPreferences)
	router.Put("/preferences", handler.updatePreferences)

	// Parental Control
	router.Put("/parental-pin", handler.setParentalPIN)
	router.Post("/parental-pin/verify", handler.verifyParentalPIN)

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	BirthDate   *string `json:"birth_date"`
	PhoneNumber *string `json:"phone_number"`
	Country     *string `json:"country"`
	Timezone    *string `json:"timezone"`
	Language    *string `json:"language"`
}

type updatePreferencesRequest struct {
	PreferredLanguage   *string       `json:"preferred_language"`
	PreferredQuality    *VideoQuality `json:"preferred_quality"`
	AutoplayEnabled     *bool         `json:"autoplay_enabled"`
	SubtitlesEnabled    *bool         `json:"subtitles_enabled"`
	SubtitleLanguage    *string       `json:"subtitle_language"`
	AdultContentEnabled *bool         `json:"adult_content_enabled"`
	EmailNotifications  *bool         `json:"email_notifications"`
	MarketingEmails     *bool         `json:"marketing_emails"`
	PushNotifications   *bool         `json:"push_notifications"`
	ContentFilters      []string      `json:"content_filters"`
	PIN                 string        `json:"pin"`
}

type setPINRequest struct {
	CurrentPIN string `json:"current_pin"`
	NewPIN     string `json:"new_pin"`
}

type verifyPINRequest struct {
	PIN string `json:"pin"`
}

func (payload *updateProfileRequest) Validate(validator *validate.Validator) {
	optionalMax(validator, FieldFirstName, payload.FirstName, 100)
	optionalMax(validator, FieldLastName, payload.LastName, 100)
	optionalMax(validator, FieldDisplayName, payload.DisplayName, 100)
	optionalMax(validator, FieldBio, payload.Bio, 1000)
	optionalMax(validator, FieldPhoneNumber, payload.PhoneNumber, 32)
	optionalMax(validator, FieldCountry, payload.Country, 64)
	optionalMax(validator, FieldTimezone, payload.Timezone, 64)
	optionalMax(validator, FieldLanguage, payload.Language, 10)

	if present(payload.AvatarURL) {
		validator.URL(FieldAvatarURL, *payload.AvatarURL)
	}
	if present(payload.BirthDate) {
		_, err := time.Parse(BirthDateLayout, *payload.BirthDate)
		validator.Custom(FieldBirthDate, err != nil, "Must be a date formatted YYYY-MM-DD")
	}
	if present(payload.Timezone) {
		_, err := time.LoadLocation(*payload.Timezone)
		validator.Custom(FieldTimezone, err != nil, "Must be an IANA time zone")
	}
}

func (payload *updatePreferencesRequest) Validate(validator *validate.Validator) {
	optionalMax(validator, "preferred_language", payload.PreferredLanguage, 10)
	optionalMax(validator, "subtitle_language", payload.SubtitleLanguage, 10)
	if payload.PreferredQuality != nil {
		validator.Custom(FieldPreferredQuality, !payload.PreferredQuality.IsValid(), "Must be one of: AUTO, SD, HD, FHD, UHD")
	}
	validator.Range(FieldContentFilters, len(payload.ContentFilters), 0, maxContentFilters)
}

// PIN format rules live in the service, which also knows whether a PIN is set.
func (payload *setPINRequest) Validate(*validate.Validator) {}

func (payload *verifyPINRequest) Validate(validator *validate.Validator) {
	validator.Required(FieldPIN, payload.PIN)
}

// # Response Payloads

// preferencesView exposes whether a PIN is set without leaking its hash.
type preferencesView struct {
	*Preferences
	ParentalControlEnabled bool `json:"parental_control_enabled"`
}

func viewOf(preferences *Preferences) preferencesView {
	return preferencesView{Preferences: preferences, ParentalControlEnabled: preferences.ParentalControlEnabled()}
}

// optionalMax checks an optional string against a maximum length.
func optionalMax(validator *validate.Validator, field string, value *string, max int) {
	if value != nil {
		validator.MaxLen(field, *value, max)
	}
}

// present reports a supplied, non-empty optional string. Empty clears the field.
func present(value *string) bool {
	return value != nil && *value != ""
}

// # Profile Endpoints

/*
GET /api/v1/me/profile.

Response:
  - 200: Profile (defaults when nothing was saved yet)
  - 401: Authentication required
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
PATCH /api/v1/me/profile.

Description: Applies a partial update. Omitted fields keep their value.

Response:
  - 200: Profile
  - 400: Validation failed
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.UpdateProfile(request.Context(), userID, ProfileChanges{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		AvatarURL:   input.AvatarURL,
		BirthDate:   input.BirthDate,
		PhoneNumber: input.PhoneNumber,
		Country:     input.Country,
		Timezone:    input.Timezone,
		Language:    input.Language,
	}, activity.ClientFrom(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Preference Endpoints

/*
GET /api/v1/me/preferences.

Response:
  - 200: Preferences (defaults when nothing was saved yet)
*/
func (handler *Handler) getPreferences(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	preferences, err := handler.accountService.GetPreferences(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, viewOf(preferences))
}

/*
PUT /api/v1/me/preferences.

Description: Replaces the supplied settings. Turning adult content on while
parental control is enabled also requires "pin".

Response:
  - 200: Preferences
  - 400: Validation failed
  - 403: PIN_REQUIRED or PIN_MISMATCH
*/
func (handler *Handler) updatePreferences(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePreferencesRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	preferences, err := handler.accountService.UpdatePreferences(request.Context(), userID, UpdatePreferencesInput{
		Changes: PreferenceChanges{
			PreferredLanguage:   input.PreferredLanguage,
			PreferredQuality:    input.PreferredQuality,
			AutoplayEnabled:     input.AutoplayEnabled,
			SubtitlesEnabled:    input.SubtitlesEnabled,
			SubtitleLanguage:    input.SubtitleLanguage,
			AdultContentEnabled: input.AdultContentEnabled,
			EmailNotifications:  input.EmailNotifications,
			MarketingEmails:     input.MarketingEmails,
			PushNotifications:   input.PushNotifications,
			ContentFilters:      input.ContentFilters,
		},
		PIN: input.PIN,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, viewOf(preferences))
}

// # Parental Control Endpoints

/*
PUT /api/v1/me/parental-pin.

Description: Sets, replaces or clears (empty "new_pin") the PIN. "current_pin"
is required whenever a PIN is already set.

Response:
  - 200: Preferences
  - 400: Validation failed
  - 403: PIN_REQUIRED or PIN_MISMATCH
*/
func (handler *Handler) setParentalPIN(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setPINRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	preferences, err := handler.accountService.SetParentalPIN(request.Context(), SetPINInput{
		UserID:     userID,
		CurrentPIN: input.CurrentPIN,
		NewPIN:     input.NewPIN,
		Client:     activity.ClientFrom(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, viewOf(preferences))
}

// verifyParentalPIN answers {"verified": bool}. POST /api/v1/me/parental-pin/verify
func (handler *Handler) verifyParentalPIN(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input verifyPINRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	verified, err := handler.accountService.VerifyParentalPIN(request.Context(), userID, input.PIN)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{FieldVerified: verified})
}
