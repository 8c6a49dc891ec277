package repository

import (
	"context"
	"testing"

	"consorcio-simulator/domain"
)

func TestSimulationRepositoryMemory_SaveListGet(t *testing.T) {
	repo := NewSimulationRepositoryMemory()
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		err := repo.Save(ctx, SimulationRecord{Receipt: domain.SimulationReceipt{ID: id}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, _ := repo.List(ctx)
	if len(list) != 2 || list[0].Receipt.ID != "a" || list[1].Receipt.ID != "b" {
		t.Fatalf("unexpected list: %+v", list)
	}

	if _, ok, _ := repo.Get(ctx, "b"); !ok {
		t.Errorf("expected record b")
	}
	if _, ok, _ := repo.Get(ctx, "z"); ok {
		t.Errorf("did not expect record z")
	}
}

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "k"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	if err := cache.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := cache.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("expected v, got %q (hit=%v)", v, ok)
	}
}
