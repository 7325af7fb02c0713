package holiday

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	Store     StoreAPI
	Companies CompanyDirectory
}

func NewService(store StoreAPI, companies CompanyDirectory) *Service {
	return &Service{Store: store, Companies: companies}
}

// Resolve returns every holiday falling inside [from, to] for the
// company: national, regional for the company's region, and company
// custom holidays with recurring occurrences materialized. The company
// must have a region configured.
func (s *Service) Resolve(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error) {
	region, err := s.Companies.CompanyRegion(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if region == nil || *region == "" {
		return nil, ErrRegionNotConfigured
	}

	// Widen the fetch window so recurring rows stored under any year
	// are still picked up by ListCompany's is_recurring branch; the
	// expansion trims back to the requested range.
	var public, company []Holiday
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		public, err = s.Store.ListPublic(gctx, *region, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		company, err = s.Store.ListCompany(gctx, companyID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ExpandInRange(append(public, company...), from, to), nil
}

func (s *Service) CreateCompanyHoliday(ctx context.Context, h Holiday) (string, error) {
	h.Scope = ScopeCompany
	h.RegionCode = nil
	return s.Store.Insert(ctx, h)
}

func (s *Service) DeleteCompanyHoliday(ctx context.Context, companyID, holidayID string) error {
	return s.Store.Delete(ctx, companyID, holidayID)
}
