package service

import (
	"context"
	"log"

	"consorcio-simulator/domain"
	"consorcio-simulator/repository"
)

type CatalogService struct {
	repo repository.CatalogRepository
}

// NewCatalogService creates a new CatalogService with the given repository.
func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListAll returns the whole catalog in its stored order.
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.repo.ListAll(ctx)
	if err != nil {
		log.Printf("Warning: failed to list catalog: %v", err)
		return nil, err
	}
	return plans, nil
}

// GetByID looks a plan up by id. A missing plan is reported with false, not
// with an error.
func (s *CatalogService) GetByID(ctx context.Context, id int) (domain.Plan, bool, error) {
	plan, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Printf("Warning: failed to get consórcio %d: %v", id, err)
		return domain.Plan{}, false, err
	}
	return plan, ok, nil
}
