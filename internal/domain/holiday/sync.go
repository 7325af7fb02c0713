package holiday

import (
	"context"
	"log/slog"
	"time"
)

const JobHolidaySync = "holiday_sync"

// Provider is the external holiday API collaborator. Implementations
// live outside this module.
type Provider interface {
	FetchYear(ctx context.Context, regionCode string, year int) ([]ProviderHoliday, error)
}

type ProviderHoliday struct {
	Date       time.Time
	Name       string
	LocalName  *string
	RegionCode *string // nil means nationwide
}

type SyncResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SyncYear imports one year of public holidays from the provider. A
// failure on a single record is logged and skipped so a partial sync
// does not abort the batch; only a failed provider fetch is fatal.
func (s *Service) SyncYear(ctx context.Context, provider Provider, regionCode string, year int) (SyncResult, error) {
	var result SyncResult

	records, err := provider.FetchYear(ctx, regionCode, year)
	if err != nil {
		return result, err
	}

	for _, record := range records {
		h := Holiday{
			Date:       record.Date,
			Name:       record.Name,
			LocalName:  record.LocalName,
			Scope:      ScopeNational,
			RegionCode: record.RegionCode,
		}
		if record.RegionCode != nil && *record.RegionCode != "" {
			h.Scope = ScopeRegional
		}
		if err := s.Store.UpsertNational(ctx, h); err != nil {
			slog.Warn("holiday sync record skipped", "date", record.Date.Format("2006-01-02"), "name", record.Name, "err", err)
			result.Skipped++
			continue
		}
		result.Imported++
	}
	return result, nil
}
