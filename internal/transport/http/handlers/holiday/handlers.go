package holidayhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timeclock/internal/domain/audit"
	"timeclock/internal/domain/auth"
	"timeclock/internal/domain/holiday"
	"timeclock/internal/platform/jobs"
	"timeclock/internal/transport/http/api"
	"timeclock/internal/transport/http/middleware"
	"timeclock/internal/transport/http/shared"
)

type Handler struct {
	Service  *holiday.Service
	Provider holiday.Provider
	Perms    middleware.PermissionStore
	Audit    *audit.Service
	Jobs     *jobs.Service
}

func NewHandler(service *holiday.Service, provider holiday.Provider, perms middleware.PermissionStore, auditSvc *audit.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Provider: provider, Perms: perms, Audit: auditSvc, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/holidays", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermHolidayRead, h.Perms)).Get("/", h.handleResolve)
		r.With(middleware.RequirePermission(auth.PermHolidayWrite, h.Perms)).Post("/company", h.handleCreateCompany)
		r.With(middleware.RequirePermission(auth.PermHolidayWrite, h.Perms)).Delete("/company/{holidayID}", h.handleDeleteCompany)
		r.With(middleware.RequirePermission(auth.PermHolidaySync, h.Perms)).Post("/sync", h.handleSync)
	})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
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

	holidays, err := h.Service.Resolve(r.Context(), user.CompanyID, from, to)
	if err != nil {
		if errors.Is(err, holiday.ErrRegionNotConfigured) {
			api.Fail(w, http.StatusNotFound, "region_not_configured", "company has no region configured", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "holidays_failed", "failed to resolve holidays", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, holidays, middleware.GetRequestID(r.Context()))
}

type companyHolidayRequest struct {
	Date        string `json:"date"`
	Name        string `json:"name"`
	IsRecurring bool   `json:"isRecurring"`
}

func (h *Handler) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload companyHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date)
	v.Required("name", payload.Name, "required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	companyID := user.CompanyID
	id, err := h.Service.CreateCompanyHoliday(r.Context(), holiday.Holiday{
		CompanyID:   &companyID,
		Date:        date,
		Name:        payload.Name,
		IsRecurring: payload.IsRecurring,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holiday_create_failed", "failed to create company holiday", middleware.GetRequestID(r.Context()))
		return
	}
	h.audit(r, user, "holidays.company.create", id, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	holidayID := chi.URLParam(r, "holidayID")
	if err := h.Service.DeleteCompanyHoliday(r.Context(), user.CompanyID, holidayID); err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			api.Fail(w, http.StatusNotFound, "holiday_not_found", "company holiday not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "holiday_delete_failed", "failed to delete company holiday", middleware.GetRequestID(r.Context()))
		return
	}
	h.audit(r, user, "holidays.company.delete", holidayID, nil)
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

type syncRequest struct {
	RegionCode string `json:"regionCode"`
	Year       int    `json:"year"`
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload syncRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("regionCode", payload.RegionCode, "required")
	v.IntRange("year", payload.Year, 2000, time.Now().Year()+2, "must be a plausible year")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	h.Jobs.Enqueue(holiday.JobHolidaySync, user.CompanyID, func(ctx context.Context) (any, error) {
		return h.Service.SyncYear(ctx, h.Provider, payload.RegionCode, payload.Year)
	})
	h.audit(r, user, "holidays.sync", payload.RegionCode, payload)
	api.WriteJSON(w, http.StatusAccepted, api.Envelope{
		Success:   true,
		Data:      map[string]string{"status": "queued"},
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

func (h *Handler) audit(r *http.Request, user auth.UserContext, action, entityID string, payload any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "holiday", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
