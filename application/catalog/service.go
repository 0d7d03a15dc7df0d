package catalog

import (
	"context"

	"robotdriver/domain/interfaces"
)

// Service encapsulates product search and price extraction
type Service struct {
	adapter interfaces.SiteAdapter
	page    interfaces.Page
}

// NewService - creates new catalog service
func NewService(adapter interfaces.SiteAdapter, page interfaces.Page) *Service {
	return &Service{adapter: adapter, page: page}
}

// PriceFor - searches for product; found is true when the product was
// reached, price is empty when no price text was visible
func (s *Service) PriceFor(ctx context.Context, product string) (found bool, price string, err error) {
	if err := ctx.Err(); err != nil {
		return false, "", err
	}
	return s.adapter.SearchAndPrice(s.page, product)
}
