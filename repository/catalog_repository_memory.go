package repository

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"consorcio-simulator/domain"
)

//go:embed catalog_fixture.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Plans []domain.Plan `yaml:"consorcios"`
}

// ParseCatalog decodes a YAML catalog document. Unknown statuses are rejected.
func ParseCatalog(data []byte) ([]domain.Plan, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return f.Plans, nil
}

// DefaultCatalog returns the built-in fixture.
func DefaultCatalog() []domain.Plan {
	plans, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return plans
}

// CatalogRepositoryMemory serves a fixed catalog held in memory.
type CatalogRepositoryMemory struct {
	plans []domain.Plan
}

// NewCatalogRepositoryMemory keeps its own copy of plans, so later changes to
// the caller's slice are not visible through the repository.
func NewCatalogRepositoryMemory(plans []domain.Plan) *CatalogRepositoryMemory {
	return &CatalogRepositoryMemory{
		plans: append([]domain.Plan(nil), plans...),
	}
}

func (r *CatalogRepositoryMemory) ListAll(ctx context.Context) ([]domain.Plan, error) {
	out := make([]domain.Plan, len(r.plans))
	copy(out, r.plans)
	return out, nil
}

func (r *CatalogRepositoryMemory) GetByID(ctx context.Context, id int) (domain.Plan, bool, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, true, nil
		}
	}
	return domain.Plan{}, false, nil
}
