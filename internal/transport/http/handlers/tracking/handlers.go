package trackinghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timeclock/internal/domain/audit"
	"timeclock/internal/domain/auth"
	"timeclock/internal/domain/tracking"
	"timeclock/internal/transport/http/api"
	"timeclock/internal/transport/http/middleware"
	"timeclock/internal/transport/http/shared"
)

type Handler struct {
	Service *tracking.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *tracking.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tracking", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTrackingRead, h.Perms)).Get("/timer", h.handleActive)
		r.With(middleware.RequirePermission(auth.PermTrackingWrite, h.Perms)).Post("/timer/start", h.handleStart)
		r.With(middleware.RequirePermission(auth.PermTrackingWrite, h.Perms)).Post("/timer/stop", h.handleStop)
		r.With(middleware.RequirePermission(auth.PermTrackingWrite, h.Perms)).Post("/timer/switch", h.handleSwitch)
		r.With(middleware.RequirePermission(auth.PermTrackingWrite, h.Perms)).Post("/timer/cancel", h.handleCancel)
		r.With(middleware.RequirePermission(auth.PermTrackingRead, h.Perms)).Get("/entries", h.handleListEntries)
		r.With(middleware.RequirePermission(auth.PermTrackingWrite, h.Perms)).Post("/entries", h.handleCreateEntry)
		r.With(middleware.RequirePermission(auth.PermTrackingWrite, h.Perms)).Put("/entries/{entryID}", h.handleEditEntry)
		r.With(middleware.RequirePermission(auth.PermTrackingWrite, h.Perms)).Delete("/entries/{entryID}", h.handleDeleteEntry)
	})
}

func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	timer, err := h.Service.Active(r.Context(), user.CompanyID, user.UserID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timer_failed", "failed to read active timer", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"timer": timer, "running": timer != nil}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	input, valid := decodeStartInput(w, r)
	if !valid {
		return
	}

	timer, err := h.Service.Start(r.Context(), user.CompanyID, user.UserID, input)
	if err != nil {
		h.failTimerError(w, r, err)
		return
	}
	h.audit(r, user, "tracking.timer.start", timer.ID, input)
	api.Created(w, timer, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entry, err := h.Service.Stop(r.Context(), user.CompanyID, user.UserID)
	if err != nil {
		h.failTimerError(w, r, err)
		return
	}
	h.audit(r, user, "tracking.timer.stop", entry.ID, nil)
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSwitch(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	input, valid := decodeStartInput(w, r)
	if !valid {
		return
	}

	result, err := h.Service.Switch(r.Context(), user.CompanyID, user.UserID, input)
	if err != nil {
		h.failTimerError(w, r, err)
		return
	}
	h.audit(r, user, "tracking.timer.switch", result.Timer.ID, input)
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.Cancel(r.Context(), user.CompanyID, user.UserID); err != nil {
		h.failTimerError(w, r, err)
		return
	}
	h.audit(r, user, "tracking.timer.cancel", user.UserID, nil)
	api.Success(w, map[string]bool{"cancelled": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEntries(w http.ResponseWriter, r *http.Request) {
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

	entries, err := h.Service.ListEntries(r.Context(), user.CompanyID, user.UserID, from, to.AddDate(0, 0, 1))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "entries_failed", "failed to list entries", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries, middleware.GetRequestID(r.Context()))
}

type entryRequest struct {
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	EntryType  string  `json:"entryType"`
	ProjectID  *string `json:"projectId"`
	IsInOffice bool    `json:"isInOffice"`
}

func (h *Handler) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entry, valid := h.decodeEntry(w, r, user)
	if !valid {
		return
	}

	created, err := h.Service.CreateEntry(r.Context(), entry)
	if err != nil {
		h.failTimerError(w, r, err)
		return
	}
	h.audit(r, user, "tracking.entry.create", created.ID, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entry, valid := h.decodeEntry(w, r, user)
	if !valid {
		return
	}
	entry.ID = chi.URLParam(r, "entryID")

	updated, err := h.Service.EditEntry(r.Context(), entry)
	if err != nil {
		h.failTimerError(w, r, err)
		return
	}
	h.audit(r, user, "tracking.entry.edit", updated.ID, updated)
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entryID := chi.URLParam(r, "entryID")
	if err := h.Service.DeleteEntry(r.Context(), user.CompanyID, user.UserID, entryID); err != nil {
		h.failTimerError(w, r, err)
		return
	}
	h.audit(r, user, "tracking.entry.delete", entryID, nil)
	api.Success(w, map[string]bool{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func decodeStartInput(w http.ResponseWriter, r *http.Request) (tracking.StartInput, bool) {
	var input tracking.StartInput
	if r.ContentLength == 0 {
		return input, true
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return input, false
	}
	return input, true
}

func (h *Handler) decodeEntry(w http.ResponseWriter, r *http.Request, user auth.UserContext) (tracking.TimeEntry, bool) {
	var payload entryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return tracking.TimeEntry{}, false
	}

	v := shared.NewValidator()
	start, startOK := v.Date("startTime", payload.StartTime)
	end, endOK := v.Date("endTime", payload.EndTime)
	if startOK && endOK && !end.After(start) {
		v.Add("endTime", "must be after startTime")
	}
	v.Enum("entryType", payload.EntryType, tracking.EntryTypes, "must be WORK or a PAUSE_* type")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return tracking.TimeEntry{}, false
	}

	entryType := payload.EntryType
	if entryType == "" {
		entryType = tracking.EntryWork
	}
	return tracking.TimeEntry{
		CompanyID:  user.CompanyID,
		UserID:     user.UserID,
		StartTime:  start,
		EndTime:    end,
		EntryType:  entryType,
		ProjectID:  payload.ProjectID,
		IsInOffice: payload.IsInOffice,
	}, true
}

func (h *Handler) failTimerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tracking.ErrTimerAlreadyRunning):
		api.Fail(w, http.StatusConflict, "timer_running", "a timer is already running", middleware.GetRequestID(r.Context()))
	case errors.Is(err, tracking.ErrNoActiveTimer):
		api.Fail(w, http.StatusConflict, "no_active_timer", "no timer is running", middleware.GetRequestID(r.Context()))
	case errors.Is(err, tracking.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "entry_not_found", "time entry not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, tracking.ErrInvalidEntry):
		api.Fail(w, http.StatusBadRequest, "invalid_entry", err.Error(), middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "tracking_failed", "tracking operation failed", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) audit(r *http.Request, user auth.UserContext, action, entityID string, payload any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "tracking", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
