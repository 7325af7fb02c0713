package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeclock/internal/domain/absence"
	"timeclock/internal/domain/audit"
	"timeclock/internal/domain/auth"
	"timeclock/internal/domain/calendar"
	"timeclock/internal/domain/core"
	"timeclock/internal/domain/holiday"
	"timeclock/internal/domain/reports"
	"timeclock/internal/domain/schedule"
	"timeclock/internal/domain/tracking"
	"timeclock/internal/platform/clock"
	"timeclock/internal/platform/config"
	"timeclock/internal/platform/db"
	"timeclock/internal/platform/jobs"
	"timeclock/internal/platform/metrics"
	absencehandler "timeclock/internal/transport/http/handlers/absence"
	authhandler "timeclock/internal/transport/http/handlers/auth"
	calendarhandler "timeclock/internal/transport/http/handlers/calendar"
	holidayhandler "timeclock/internal/transport/http/handlers/holiday"
	reportshandler "timeclock/internal/transport/http/handlers/reports"
	schedulehandler "timeclock/internal/transport/http/handlers/schedule"
	trackinghandler "timeclock/internal/transport/http/handlers/tracking"
	"timeclock/internal/transport/http/api"
	"timeclock/internal/transport/http/middleware"
	"timeclock/internal/transport/http/shared"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

// New wires the whole application: storage, domain services, jobs and
// the HTTP surface. The caller owns the pool's lifetime via Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app := &App{Config: cfg, DB: pool}
	app.Jobs = jobs.New(pool)
	app.Router = app.buildRouter()
	return app, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func (a *App) buildRouter() http.Handler {
	cfg := a.Config
	pool := a.DB
	systemClock := clock.System()

	coreStore := core.NewStore(pool)
	auditSvc := audit.New(pool)
	perms := auth.StaticPermissions{}

	scheduleSvc := schedule.NewService(schedule.NewStore(pool), coreStore, a.Jobs)
	holidaySvc := holiday.NewService(holiday.NewStore(pool), coreStore)
	absenceSvc := absence.NewService(absence.NewStore(pool))
	trackingSvc := tracking.NewService(tracking.NewStore(pool), systemClock)
	calendarSvc := calendar.NewService(scheduleSvc, holidaySvc, absenceSvc, trackingSvc, coreStore, systemClock)
	reportsSvc := reports.NewService(calendarSvc, coreStore, cfg.ReportsDir)
	provider := holiday.NewNagerProvider()

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		if cfg.MetricsEnabled {
			r.With(middleware.RequirePermission(auth.PermAuditRead, perms)).Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(req.Context()))
			})
		}

		authHandler := authhandler.NewHandler(auth.NewStore(pool), cfg.JWTSecret)
		r.With(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)).Post("/auth/login", authHandler.HandleLogin)
		r.Get("/auth/me", authHandler.HandleMe)

		schedulehandler.NewHandler(scheduleSvc, perms, auditSvc).RegisterRoutes(r)
		holidayhandler.NewHandler(holidaySvc, provider, perms, auditSvc, a.Jobs).RegisterRoutes(r)
		absencehandler.NewHandler(absenceSvc, perms, auditSvc).RegisterRoutes(r)
		trackinghandler.NewHandler(trackingSvc, perms, auditSvc).RegisterRoutes(r)
		calendarhandler.NewHandler(calendarSvc, perms).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, perms, auditSvc).RegisterRoutes(r)

		r.With(middleware.RequirePermission(auth.PermAuditRead, perms)).Get("/jobs/runs", func(w http.ResponseWriter, req *http.Request) {
			user, _ := middleware.GetUser(req.Context())
			page := shared.ParsePagination(req, 50, 200)
			runs, err := a.Jobs.ListRuns(req.Context(), user.CompanyID, req.URL.Query().Get("jobType"), page.Limit, page.Offset)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "jobs_failed", "failed to list job runs", middleware.GetRequestID(req.Context()))
				return
			}
			api.Success(w, runs, middleware.GetRequestID(req.Context()))
		})
	})

	return router
}

// startBackground launches the job worker and, when configured, the
// periodic holiday sync for the seed company's region.
func (a *App) startBackground(ctx context.Context) {
	a.Jobs.Start(ctx)

	if a.Config.HolidaySyncInterval > 0 && a.Config.SeedCompanyRegion != "" {
		holidayStore := holiday.NewStore(a.DB)
		holidaySvc := holiday.NewService(holidayStore, core.NewStore(a.DB))
		provider := holiday.NewNagerProvider()
		region := a.Config.SeedCompanyRegion
		a.Jobs.StartInterval(ctx, a.Config.HolidaySyncInterval, holiday.JobHolidaySync, "", func(ctx context.Context) (any, error) {
			year := time.Now().UTC().Year()
			first, err := holidaySvc.SyncYear(ctx, provider, region, year)
			if err != nil {
				return nil, err
			}
			second, err := holidaySvc.SyncYear(ctx, provider, region, year+1)
			if err != nil {
				return first, err
			}
			return holiday.SyncResult{
				Imported: first.Imported + second.Imported,
				Skipped:  first.Skipped + second.Skipped,
			}, nil
		})
	}
}

func Run() {
	ctx := context.Background()
	cfg := config.Load()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		return
	}
	defer app.Close()

	app.startBackground(ctx)

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		slog.Error("server failed", "err", err)
	}
}
