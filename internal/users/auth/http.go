// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/streamvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/streamvault/internal/platform/request"
	"github.com/taibuivan/streamvault/internal/platform/respond"
	"github.com/taibuivan/streamvault/internal/platform/sec"
	"github.com/taibuivan/streamvault/internal/platform/validate"
	"github.com/taibuivan/streamvault/internal/users/activity"
)

// Handler exposes registration, login and session management over HTTP.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

/*
Routes returns the /auth router.

Public:
  - POST /register, /login, /verify-email, /forgot-password, /reset-password

Bearer session required:
  - POST /logout, /logout-all, /extend, /change-password, /resend-verification
  - GET /validate, /sessions
  - DELETE /sessions/{sessionID}
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/logout-all", handler.logoutAll)
		r.Get("/validate", handler.validateSession)
		r.Post("/extend", handler.extend)
		r.Post("/change-password", handler.changePassword)
		r.Post("/resend-verification", handler.resendVerification)
		r.Get("/sessions", handler.listSessions)
		r.Delete("/sessions/{sessionID}", handler.revokeSession)
	})

	return router
}

// AdminRoutes returns the account administration routes, restricted to administrators.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Patch("/users/{userID}/status", handler.updateStatus)
	return router
}

// # Payloads

// password applies the shared password policy to one field.
func password(validator *validate.Validator, field, value string) {
	validator.Required(field, value).
		MinLen(field, value, PasswordMinLength).
		MaxLen(field, value, PasswordMaxLength)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (payload *registerRequest) Validate(validator *validate.Validator) {
	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)

	validator.Required(FieldUsername, payload.Username).
		MinLen(FieldUsername, payload.Username, 3).
		MaxLen(FieldUsername, payload.Username, 50).
		Username(FieldUsername, payload.Username).
		Required(FieldEmail, payload.Email).
		MaxLen(FieldEmail, payload.Email, 255).
		Email(FieldEmail, payload.Email)
	password(validator, FieldPassword, payload.Password)
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

func (payload *loginRequest) Validate(validator *validate.Validator) {
	validator.Required(FieldIdentifier, payload.UsernameOrEmail).
		Required(FieldPassword, payload.Password)
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (payload *tokenRequest) Validate(validator *validate.Validator) {
	validator.Required(FieldToken, payload.Token)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (payload *forgotPasswordRequest) Validate(validator *validate.Validator) {
	payload.Email = strings.TrimSpace(payload.Email)
	validator.Required(FieldEmail, payload.Email).Email(FieldEmail, payload.Email)
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (payload *resetPasswordRequest) Validate(validator *validate.Validator) {
	validator.Required(FieldToken, payload.Token)
	password(validator, FieldPassword, payload.Password)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (payload *changePasswordRequest) Validate(validator *validate.Validator) {
	validator.Required(FieldCurrentPassword, payload.CurrentPassword)
	password(validator, FieldNewPassword, payload.NewPassword)
}

type updateStatusRequest struct {
	Status UserStatus `json:"status"`
}

func (payload *updateStatusRequest) Validate(validator *validate.Validator) {
	validator.Custom(FieldStatus, !payload.Status.IsValid(), "Must be one of: ACTIVE, INACTIVE, SUSPENDED, BANNED")
}

type sessionList struct {
	Sessions []*Session `json:"sessions"`
	Active   int64      `json:"active"`
}

// # Registration and Login

// register: POST /auth/register. 201 with the user, 409 on a taken handle or email.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Client:   activity.ClientFrom(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
login: POST /auth/login.

Response:
  - 200: Session with the plaintext token (only time it is ever returned)
  - 401: INVALID_CREDENTIALS
  - 403: Account not active
  - 423: ACCOUNT_LOCKED with meta.locked_until
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: input.UsernameOrEmail,
		Password:   input.Password,
		Client:     activity.ClientFrom(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// # Current Session

// logout: POST /auth/logout. Ends the calling session only.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ended, err := handler.authService.Logout(request.Context(), principal.Token, activity.ClientFrom(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"logged_out": ended})
}

// logoutAll: POST /auth/logout-all. Includes the calling session.
func (handler *Handler) logoutAll(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"logged_out": handler.authService.EndAllUserSessions(request.Context(), userID)})
}

// validateSession: GET /auth/validate. The middleware already recorded the heartbeat.
func (handler *Handler) validateSession(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.FindActiveSession(request.Context(), principal.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// extend: POST /auth/extend. Moves expiry to now plus the session TTL.
func (handler *Handler) extend(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.ExtendSession(request.Context(), principal.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

// # Session Management

// listSessions: GET /auth/sessions.
func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list := sessionList{Sessions: []*Session{}}

	sessions, err := handler.authService.ListUserSessions(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	list.Sessions = append(list.Sessions, sessions...)

	if list.Active, err = handler.authService.CountActiveUserSessions(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, list)
}

// revokeSession: DELETE /auth/sessions/{sessionID}. Only the caller's own sessions resolve.
func (handler *Handler) revokeSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sessionID, err := requestutil.Int64Param(request, "sessionID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RevokeSession(request.Context(), userID, sessionID, activity.ClientFrom(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Credentials

// changePassword: POST /auth/change-password. 204 on success; other sessions end.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), ChangePasswordInput{
		UserID:          principal.UserID,
		SessionID:       principal.SessionID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
		Client:          activity.ClientFrom(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// verifyEmail: POST /auth/verify-email.
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), input.Token, activity.ClientFrom(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// resendVerification: POST /auth/resend-verification. 409 once the email is verified.
func (handler *Handler) resendVerification(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResendVerification(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// forgotPassword: POST /auth/forgot-password. Always 202 so emails cannot be probed.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusAccepted, respond.SuccessEnvelope{
		Data: map[string]string{FieldMessage: "If the email is registered, a reset link has been sent"},
	})
}

// resetPassword: POST /auth/reset-password. Every session of the account ends.
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password, activity.ClientFrom(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Administration

// updateStatus: PATCH /admin/users/{userID}/status.
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.Int64Param(request, "userID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateStatusRequest
	if err := requestutil.Bind(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.UpdateUserStatus(request.Context(), userID, input.Status); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
