package repository

import (
	"context"
	"errors"
	"testing"

	"consorcio-simulator/domain"
)

func TestDefaultCatalog(t *testing.T) {
	plans := DefaultCatalog()

	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	if plans[0].ID != 1 || plans[0].ItemDescription != "Honda CG 160" || plans[0].TotalValue != 12000 {
		t.Errorf("unexpected first plan: %+v", plans[0])
	}
	if plans[2].Status != domain.StatusForming {
		t.Errorf("expected %q, got %q", domain.StatusForming, plans[2].Status)
	}
}

func TestParseCatalog_InvalidStatus(t *testing.T) {
	_, err := ParseCatalog([]byte(`
consorcios:
  - id: 9
    moto: Teste
    status: Cancelado
`))
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo := NewCatalogRepositoryMemory(DefaultCatalog())

	for _, want := range DefaultCatalog() {
		got, ok, err := repo.GetByID(context.Background(), want.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("expected plan %d to be found", want.ID)
		}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := NewCatalogRepositoryMemory(DefaultCatalog())

	for _, id := range []int{0, -1, 4, 999} {
		_, ok, err := repo.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Errorf("expected id %d to be absent", id)
		}
	}
}

func TestGetByID_DuplicateFirstWins(t *testing.T) {
	repo := NewCatalogRepositoryMemory([]domain.Plan{
		{ID: 7, ItemDescription: "primeiro", Status: domain.StatusAvailable},
		{ID: 7, ItemDescription: "segundo", Status: domain.StatusSoldOut},
	})

	got, ok, _ := repo.GetByID(context.Background(), 7)
	if !ok || got.ItemDescription != "primeiro" {
		t.Errorf("expected first match, got %+v (found=%v)", got, ok)
	}
}

func TestListAll_ReturnsCopy(t *testing.T) {
	source := DefaultCatalog()
	repo := NewCatalogRepositoryMemory(source)
	source[0].TotalValue = 1

	list, _ := repo.ListAll(context.Background())
	list[1].ItemDescription = "alterado"

	again, _ := repo.ListAll(context.Background())
	if again[0].TotalValue != 12000 {
		t.Errorf("caller slice leaked into repository: %+v", again[0])
	}
	if again[1].ItemDescription != "Yamaha YBR 125" {
		t.Errorf("returned slice aliased repository data: %+v", again[1])
	}
}
