package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const nagerBaseURL = "https://date.nager.at/api/v3"

// NagerProvider fetches public holidays from the Nager.Date API. The
// region code is "CC" or "CC-SUB"; the country part selects the feed
// and the subdivision part filters county-scoped records.
type NagerProvider struct {
	BaseURL string
	Client  *http.Client
}

func NewNagerProvider() *NagerProvider {
	return &NagerProvider{
		BaseURL: nagerBaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type nagerHoliday struct {
	Date      string   `json:"date"`
	LocalName string   `json:"localName"`
	Name      string   `json:"name"`
	Global    bool     `json:"global"`
	Counties  []string `json:"counties"`
}

func (p *NagerProvider) FetchYear(ctx context.Context, regionCode string, year int) ([]ProviderHoliday, error) {
	country, subdivision := splitRegion(regionCode)
	if country == "" {
		return nil, fmt.Errorf("holiday provider: empty region code")
	}

	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", p.BaseURL, year, country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday provider: unexpected status %d for %s/%d", resp.StatusCode, country, year)
	}

	var records []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("holiday provider: decode: %w", err)
	}

	out := make([]ProviderHoliday, 0, len(records))
	for _, record := range records {
		date, err := time.Parse("2006-01-02", record.Date)
		if err != nil {
			continue
		}
		ph := ProviderHoliday{Date: date, Name: record.Name}
		if record.LocalName != "" && record.LocalName != record.Name {
			local := record.LocalName
			ph.LocalName = &local
		}
		if !record.Global {
			if !countyMatches(record.Counties, regionCode, subdivision) {
				continue
			}
			region := regionCode
			ph.RegionCode = &region
		}
		out = append(out, ph)
	}
	return out, nil
}

func splitRegion(regionCode string) (country, subdivision string) {
	trimmed := strings.TrimSpace(regionCode)
	if trimmed == "" {
		return "", ""
	}
	parts := strings.SplitN(trimmed, "-", 2)
	if len(parts) == 2 {
		return strings.ToUpper(parts[0]), strings.ToUpper(parts[1])
	}
	return strings.ToUpper(parts[0]), ""
}

func countyMatches(counties []string, regionCode, subdivision string) bool {
	if subdivision == "" {
		return false
	}
	for _, county := range counties {
		if strings.EqualFold(county, regionCode) {
			return true
		}
	}
	return false
}
