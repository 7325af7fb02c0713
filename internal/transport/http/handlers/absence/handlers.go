package absencehandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"timeclock/internal/domain/absence"
	"timeclock/internal/domain/audit"
	"timeclock/internal/domain/auth"
	"timeclock/internal/transport/http/api"
	"timeclock/internal/transport/http/middleware"
	"timeclock/internal/transport/http/shared"
)

type Handler struct {
	Service *absence.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *absence.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/absences", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAbsenceRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAbsenceWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAbsenceReview, h.Perms)).Post("/{absenceID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermAbsenceReview, h.Perms)).Post("/{absenceID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermAbsenceWrite, h.Perms)).Post("/{absenceID}/cancel", h.handleCancel)
	})
}

type createAbsenceRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	v.Required("type", payload.Type, "required")
	v.Enum("type", payload.Type, absence.Types, "must be one of VACATION, SICKNESS, PERSONAL, OTHER")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), absence.Absence{
		CompanyID: user.CompanyID,
		UserID:    user.UserID,
		StartDate: start,
		EndDate:   end,
		Type:      strings.ToUpper(strings.TrimSpace(payload.Type)),
		Reason:    payload.Reason,
	})
	if err != nil {
		if errors.Is(err, absence.ErrInvalidRange) {
			api.Fail(w, http.StatusBadRequest, "invalid_range", "endDate must be on or after startDate", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "absence_create_failed", "failed to create absence", middleware.GetRequestID(r.Context()))
		return
	}
	h.audit(r, user, "absences.create", id, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := user.UserID
	if queried := r.URL.Query().Get("userId"); queried != "" && queried != user.UserID {
		allowed, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermAbsenceReview)
		if err != nil || !allowed {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot read another user's absences", middleware.GetRequestID(r.Context()))
			return
		}
		targetID = queried
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

	absences, err := h.Service.ListForUser(r.Context(), user.CompanyID, targetID, from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "absences_failed", "failed to list absences", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, absences, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "absences.approve", h.Service.Approve)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "absences.reject", h.Service.Reject)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "absences.cancel", h.Service.Cancel)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn func(ctx context.Context, companyID, absenceID string) error) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	absenceID := chi.URLParam(r, "absenceID")
	if err := fn(r.Context(), user.CompanyID, absenceID); err != nil {
		switch {
		case errors.Is(err, absence.ErrAbsenceNotFound):
			api.Fail(w, http.StatusNotFound, "absence_not_found", "absence not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, absence.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "absence_update_failed", "failed to update absence", middleware.GetRequestID(r.Context()))
		}
		return
	}
	h.audit(r, user, action, absenceID, nil)
	api.Success(w, map[string]bool{"updated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) audit(r *http.Request, user auth.UserContext, action, entityID string, payload any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, action, "absence", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
