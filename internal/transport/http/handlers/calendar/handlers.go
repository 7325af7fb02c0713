package calendarhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timeclock/internal/domain/auth"
	"timeclock/internal/domain/calendar"
	"timeclock/internal/domain/core"
	"timeclock/internal/domain/holiday"
	"timeclock/internal/transport/http/api"
	"timeclock/internal/transport/http/middleware"
	"timeclock/internal/transport/http/shared"
)

type Handler struct {
	Service *calendar.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *calendar.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCalendarRead, h.Perms)).Get("/", h.handleRange)
		r.With(middleware.RequirePermission(auth.PermCalendarRead, h.Perms)).Get("/month", h.handleMonth)
	})
}

func (h *Handler) handleRange(w http.ResponseWriter, r *http.Request) {
	user, targetID, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	v := shared.NewValidator()
	from, fromOK := v.Date("from", r.URL.Query().Get("from"))
	to, toOK := v.Date("to", r.URL.Query().Get("to"))
	if fromOK && toOK {
		v.DateOrder("from", from, "to", to)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Range(r.Context(), user.CompanyID, targetID, from, to)
	if err != nil {
		h.failCalendarError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

// handleMonth serves the padded month view. The month query parameter
// is zero-indexed: 0 is January, 11 is December.
func (h *Handler) handleMonth(w http.ResponseWriter, r *http.Request) {
	user, targetID, ok := h.resolveTarget(w, r)
	if !ok {
		return
	}

	year := shared.IntQuery(r, "year", 0)
	month := shared.IntQuery(r, "month", -1)

	v := shared.NewValidator()
	v.IntRange("year", year, 2000, 2200, "must be a plausible year")
	v.IntRange("month", month, 0, 11, "must be 0 (January) through 11 (December)")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Month(r.Context(), user.CompanyID, targetID, year, month)
	if err != nil {
		h.failCalendarError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) resolveTarget(w http.ResponseWriter, r *http.Request) (auth.UserContext, string, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return auth.UserContext{}, "", false
	}

	targetID := user.UserID
	if queried := r.URL.Query().Get("userId"); queried != "" && queried != user.UserID {
		allowed, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermCostsRead)
		if err != nil || !allowed {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another user's calendar", middleware.GetRequestID(r.Context()))
			return auth.UserContext{}, "", false
		}
		targetID = queried
	}
	return user, targetID, true
}

func (h *Handler) failCalendarError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "invalid_range", "to must be on or after from", middleware.GetRequestID(r.Context()))
	case errors.Is(err, core.ErrUserNotFound):
		api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, holiday.ErrRegionNotConfigured):
		api.Fail(w, http.StatusNotFound, "region_not_configured", "company has no region configured", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "calendar_failed", "failed to build calendar", middleware.GetRequestID(r.Context()))
	}
}
