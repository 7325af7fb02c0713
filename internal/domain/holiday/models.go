package holiday

import "time"

const (
	ScopeNational = "national"
	ScopeRegional = "regional"
	ScopeCompany  = "company"
)

type Holiday struct {
	ID          string    `json:"id,omitempty"`
	CompanyID   *string   `json:"companyId,omitempty"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	LocalName   *string   `json:"localName,omitempty"`
	Scope       string    `json:"scope"`
	RegionCode  *string   `json:"regionCode,omitempty"`
	IsRecurring bool      `json:"isRecurring,omitempty"`
}

// IsPublic reports whether the holiday is a national or regional one,
// as opposed to a company custom day.
func (h Holiday) IsPublic() bool {
	return h.Scope == ScopeNational || h.Scope == ScopeRegional
}
