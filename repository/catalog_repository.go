package repository

import (
	"context"

	"consorcio-simulator/domain"
)

// CatalogRepository gives read access to the plan catalog. Implementations
// return copies; callers may modify what they get back.
type CatalogRepository interface {
	ListAll(ctx context.Context) ([]domain.Plan, error)
	// GetByID reports false when no plan has the id. When ids repeat, the
	// first plan in catalog order wins.
	GetByID(ctx context.Context, id int) (domain.Plan, bool, error)
}
