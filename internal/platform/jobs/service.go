package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Service runs background work sequentially off a bounded queue and
// records every run in the job_runs table.
type Service struct {
	DB    *pgxpool.Pool
	queue chan job
}

type job struct {
	Type      string
	CompanyID string
	Run       func(context.Context) (any, error)
}

func New(db *pgxpool.Pool) *Service {
	return &Service{
		DB:    db,
		queue: make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

func (s *Service) Enqueue(jobType, companyID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, CompanyID: companyID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "companyId", companyID)
	}
}

// RunNow executes a job synchronously, still recording the run.
func (s *Service) RunNow(ctx context.Context, jobType, companyID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, CompanyID: companyID, Run: run})
}

// StartInterval enqueues the given job on a fixed schedule until the
// context is cancelled.
func (s *Service) StartInterval(ctx context.Context, interval time.Duration, jobType, companyID string, run func(context.Context) (any, error)) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Enqueue(jobType, companyID, run)
			}
		}
	}()
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "companyId", j.CompanyID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (company_id, job_type, status)
    VALUES ($1,$2,'running')
    RETURNING id
  `, j.CompanyID, j.Type).Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
	}

	result, err := j.Run(ctx)
	status := "succeeded"
	var detail []byte
	if err != nil {
		status = "failed"
		detail, _ = json.Marshal(map[string]string{"error": err.Error()})
	} else if result != nil {
		detail, _ = json.Marshal(result)
	}

	if runID != "" {
		if _, updateErr := s.DB.Exec(ctx, `
      UPDATE job_runs SET status = $2, detail_json = $3, finished_at = now()
      WHERE id = $1
    `, runID, status, detail); updateErr != nil {
			slog.Warn("job run update failed", "jobType", j.Type, "err", updateErr)
		}
	}
	return result, err
}

func (s *Service) ListRuns(ctx context.Context, companyID, jobType string, limit, offset int) ([]map[string]any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, job_type, status, detail_json, started_at, finished_at
    FROM job_runs
    WHERE company_id = $1 AND ($2 = '' OR job_type = $2)
    ORDER BY started_at DESC
    LIMIT $3 OFFSET $4
  `, companyID, jobType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]any
	for rows.Next() {
		var (
			id, jt, status string
			detail         []byte
			startedAt      time.Time
			finishedAt     *time.Time
		)
		if err := rows.Scan(&id, &jt, &status, &detail, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		run := map[string]any{
			"id": id, "jobType": jt, "status": status, "startedAt": startedAt,
		}
		if finishedAt != nil {
			run["finishedAt"] = *finishedAt
		}
		if len(detail) > 0 {
			run["detail"] = json.RawMessage(detail)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
