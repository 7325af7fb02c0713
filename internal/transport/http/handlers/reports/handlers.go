package reportshandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timeclock/internal/domain/audit"
	"timeclock/internal/domain/auth"
	"timeclock/internal/domain/calendar"
	"timeclock/internal/domain/core"
	"timeclock/internal/domain/reports"
	"timeclock/internal/transport/http/api"
	"timeclock/internal/transport/http/middleware"
	"timeclock/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/attendance/monthly", h.handleMonthlyAttendance)
	})
	r.Route("/audit", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead, h.Perms)).Get("/events", h.handleAuditEvents)
	})
}

// handleMonthlyAttendance generates the PDF and streams it back. The
// month query parameter is 1-indexed here, matching the file naming.
func (h *Handler) handleMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := user.UserID
	if queried := r.URL.Query().Get("userId"); queried != "" && queried != user.UserID {
		allowed, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermCostsRead)
		if err != nil || !allowed {
			api.Fail(w, http.StatusForbidden, "forbidden", "cannot report on another user", middleware.GetRequestID(r.Context()))
			return
		}
		targetID = queried
	}

	year := shared.IntQuery(r, "year", 0)
	month := shared.IntQuery(r, "month", 0)

	v := shared.NewValidator()
	v.IntRange("year", year, 2000, 2200, "must be a plausible year")
	v.IntRange("month", month, 1, 12, "must be 1 (January) through 12 (December)")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	filePath, err := h.Service.MonthlyAttendancePDF(r.Context(), user.CompanyID, targetID, year, month)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUserNotFound):
			api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
		case errors.Is(err, calendar.ErrInvalidRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", "invalid report period", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate report", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.CompanyID, user.UserID, "reports.attendance.monthly", "report", filePath, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
			slog.Warn("audit record failed", "action", "reports.attendance.monthly", "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filePath)
}

func (h *Handler) handleAuditEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	events, err := h.Audit.List(r.Context(), user.CompanyID, r.URL.Query().Get("action"), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
