package app

import "github.com/cimillas/cert-checkout/internal/domain"

// CatalogService exposes the static certificate catalog to transports.
type CatalogService struct{}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

func (s *CatalogService) Offerings() []domain.Offering {
	return domain.Offerings()
}

func (s *CatalogService) AddOns() []domain.AddOn {
	return domain.AddOns()
}

func (s *CatalogService) Entitlements() []string {
	return domain.Entitlements()
}
