package schedulehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"timeclock/internal/domain/audit"
	"timeclock/internal/domain/auth"
	"timeclock/internal/domain/schedule"
	"timeclock/internal/transport/http/api"
	"timeclock/internal/transport/http/middleware"
	"timeclock/internal/transport/http/shared"
)

type Handler struct {
	Service *schedule.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *schedule.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedule", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermScheduleRead, h.Perms)).Get("/effective", h.handleEffective)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Put("/company/days/{dayOfWeek}", h.handleSaveCompanyDay)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Put("/users/{userID}/days/{dayOfWeek}", h.handleSaveUserDay)
		r.With(middleware.RequirePermission(auth.PermScheduleWrite, h.Perms)).Delete("/users/{userID}/days/{dayOfWeek}", h.handleDeleteUserDay)
	})
	r.Route("/costs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermCostsRead, h.Perms)).Get("/hourly/preview", h.handlePreviewHourlyCost)
		r.With(middleware.RequirePermission(auth.PermCostsWrite, h.Perms)).Post("/hourly/recalculate/{userID}", h.handleRecalculate)
	})
}

func (h *Handler) handleEffective(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := user.UserID
	if queried := r.URL.Query().Get("userId"); queried != "" && queried != user.UserID {
		allowed, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermScheduleWrite)
		if err != nil || !allowed {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another user's schedule", middleware.GetRequestID(r.Context()))
			return
		}
		targetID = queried
	}

	effective, err := h.Service.Effective(r.Context(), user.CompanyID, targetID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedule_failed", "failed to resolve schedule", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, effective, middleware.GetRequestID(r.Context()))
}

type scheduleDayRequest struct {
	IsWorkable bool    `json:"isWorkable"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakStart *string `json:"breakStartTime"`
	BreakEnd   *string `json:"breakEndTime"`
}

func (h *Handler) handleSaveCompanyDay(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	dayOfWeek, payload, valid := h.decodeDay(w, r)
	if !valid {
		return
	}

	id, err := h.Service.SaveCompanyDay(r.Context(), schedule.WorkScheduleDay{
		CompanyID:  user.CompanyID,
		DayOfWeek:  dayOfWeek,
		IsWorkable: payload.IsWorkable,
		StartTime:  payload.StartTime,
		EndTime:    payload.EndTime,
		BreakStart: payload.BreakStart,
		BreakEnd:   payload.BreakEnd,
	})
	if err != nil {
		h.failScheduleError(w, r, err)
		return
	}
	h.audit(r, user, "schedule.company.save", "work_schedule_day", id, payload)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveUserDay(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := chi.URLParam(r, "userID")
	dayOfWeek, payload, valid := h.decodeDay(w, r)
	if !valid {
		return
	}

	id, err := h.Service.SaveUserDay(r.Context(), schedule.WorkScheduleDay{
		CompanyID:  user.CompanyID,
		DayOfWeek:  dayOfWeek,
		IsWorkable: payload.IsWorkable,
		StartTime:  payload.StartTime,
		EndTime:    payload.EndTime,
		BreakStart: payload.BreakStart,
		BreakEnd:   payload.BreakEnd,
	}, targetID)
	if err != nil {
		h.failScheduleError(w, r, err)
		return
	}
	h.audit(r, user, "schedule.user.save", "work_schedule_day", id, payload)
	api.Success(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteUserDay(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := chi.URLParam(r, "userID")
	dayOfWeek, err := strconv.Atoi(chi.URLParam(r, "dayOfWeek"))
	if err != nil || dayOfWeek < 0 || dayOfWeek >= schedule.DaysPerWeek {
		api.Fail(w, http.StatusBadRequest, "invalid_day", "dayOfWeek must be 0 (Monday) through 6 (Sunday)", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.RemoveUserDay(r.Context(), user.CompanyID, targetID, dayOfWeek); err != nil {
		api.Fail(w, http.StatusInternalServerError, "schedule_failed", "failed to delete schedule override", middleware.GetRequestID(r.Context()))
		return
	}
	h.audit(r, user, "schedule.user.delete", "work_schedule_day", targetID, map[string]int{"dayOfWeek": dayOfWeek})
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePreviewHourlyCost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := r.URL.Query().Get("userId")
	if targetID == "" {
		targetID = user.UserID
	}
	salary, err := strconv.ParseFloat(r.URL.Query().Get("monthlySalary"), 64)
	if err != nil || salary <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_salary", "monthlySalary must be a positive number", middleware.GetRequestID(r.Context()))
		return
	}

	cost, err := h.Service.HourlyCostFromSalary(r.Context(), user.CompanyID, targetID, salary)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cost_failed", "failed to compute hourly cost", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]float64{"hourlyCost": cost}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := chi.URLParam(r, "userID")
	updated, err := h.Service.RecalculateUserCost(r.Context(), user.CompanyID, targetID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "cost_failed", "failed to recalculate hourly cost", middleware.GetRequestID(r.Context()))
		return
	}
	h.audit(r, user, "costs.recalculate", "user", targetID, map[string]bool{"updated": updated})
	api.Success(w, map[string]bool{"updated": updated}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) decodeDay(w http.ResponseWriter, r *http.Request) (int, scheduleDayRequest, bool) {
	var payload scheduleDayRequest
	dayOfWeek, err := strconv.Atoi(chi.URLParam(r, "dayOfWeek"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_day", "dayOfWeek must be 0 (Monday) through 6 (Sunday)", middleware.GetRequestID(r.Context()))
		return 0, payload, false
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return 0, payload, false
	}

	v := shared.NewValidator()
	v.IntRange("dayOfWeek", dayOfWeek, 0, schedule.DaysPerWeek-1, "must be 0 (Monday) through 6 (Sunday)")
	if payload.IsWorkable {
		v.Required("startTime", payload.StartTime, "required for workable days")
		v.Required("endTime", payload.EndTime, "required for workable days")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return 0, payload, false
	}
	return dayOfWeek, payload, true
}

func (h *Handler) failScheduleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, schedule.ErrInvalidTime), errors.Is(err, schedule.ErrInvalidDayOfWeek):
		api.Fail(w, http.StatusBadRequest, "invalid_schedule", err.Error(), middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "schedule_failed", "failed to save schedule day", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) audit(r *http.Request, user auth.UserContext, action, entityType, entityID string, payload any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
