package customer

import (
	"context"

	"caixa/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByDocument retrieves a customer by identification document.
	FindByDocument(ctx context.Context, document string) (*Customer, error)
}
