// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/streamvault/internal/platform/constants"
	"github.com/taibuivan/streamvault/internal/platform/middleware"
	requestutil "github.com/taibuivan/streamvault/internal/platform/request"
	"github.com/taibuivan/streamvault/internal/platform/respond"
	"github.com/taibuivan/streamvault/pkg/pagination"
)

// Handler serves the caller's own audit trail.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /me/activity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)
	router.Get("/", handler.list)
	return router
}

/*
list returns the caller's activity, newest first.

GET /api/v1/me/activity?page=&limit=

Response:
  - 200: Paginated []Entry
  - 401: Not authenticated
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, meta, err := handler.service.History(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, meta)
}

// ClientFrom extracts the originating client of a request for audit entries.
func ClientFrom(request *http.Request) Client {
	return Client{
		IPAddress:  middleware.RealIP(request),
		UserAgent:  request.UserAgent(),
		DeviceInfo: request.Header.Get(constants.HeaderDeviceInfo),
	}
}
