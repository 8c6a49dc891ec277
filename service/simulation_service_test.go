package service

import (
	"context"
	"errors"
	"testing"

	"consorcio-simulator/repository"
)

type failingCache struct {
	*repository.MemoryCache
}

func (f *failingCache) Set(ctx context.Context, key, value string) error {
	return errors.New("cache down")
}

func newTestSimulationService(cache repository.CacheRepository) (*SimulationService, *repository.SimulationRepositoryMemory) {
	repo := repository.NewSimulationRepositoryMemory()
	s := NewSimulationService(repo, cache)
	s.newID = func() string { return "sim-1" }
	return s, repo
}

func TestSimulationService_Register(t *testing.T) {
	cache := repository.NewMemoryCache()
	s, repo := newTestSimulationService(cache)

	receipt, err := s.Register(context.Background(), samplePayload())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID != "sim-1" {
		t.Errorf("expected sim-1, got %q", receipt.ID)
	}
	if receipt.Fields["email"] != "maria@example.com" {
		t.Errorf("expected echoed email, got %v", receipt.Fields["email"])
	}

	records, _ := repo.List(context.Background())
	if len(records) != 1 {
		t.Fatalf("expected 1 stored simulation, got %d", len(records))
	}
	if _, ok := cache.Get(context.Background(), receiptCacheKeyPrefix+"sim-1"); !ok {
		t.Errorf("expected receipt to be cached")
	}

	got, ok, err := s.Get(context.Background(), "sim-1")
	if err != nil || !ok || got.ID != "sim-1" {
		t.Errorf("expected cached receipt, got %+v (found=%v, err=%v)", got, ok, err)
	}
}

func TestSimulationService_Register_Invalid(t *testing.T) {
	s, repo := newTestSimulationService(repository.NewMemoryCache())
	payload := samplePayload()
	payload.CustomerEmail = "nao-e-email"
	payload.InstallmentWithInsurance = 0

	_, err := s.Register(context.Background(), payload)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Errorf("expected email message, got %v", ve.Fields)
	}
	if _, ok := ve.Fields["valorParcelaComSeguro"]; !ok {
		t.Errorf("expected valorParcelaComSeguro message, got %v", ve.Fields)
	}
	if records, _ := repo.List(context.Background()); len(records) != 0 {
		t.Errorf("repository Save should NOT be called")
	}
}

func TestSimulationService_CacheFailureIsNotFatal(t *testing.T) {
	cache := &failingCache{MemoryCache: repository.NewMemoryCache()}
	s, _ := newTestSimulationService(cache)

	if _, err := s.Register(context.Background(), samplePayload()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, _ := s.Get(context.Background(), "sim-1")
	if !ok || got.ID != "sim-1" {
		t.Errorf("expected fallback to repository, got %+v (found=%v)", got, ok)
	}
	list, _ := s.List(context.Background())
	if len(list) != 1 {
		t.Errorf("expected 1 simulation, got %d", len(list))
	}
}

func TestLocalEndpoint_SubmitAndList(t *testing.T) {
	s, _ := newTestSimulationService(repository.NewMemoryCache())
	endpoint := NewLocalEndpoint(s)

	receipt, err := endpoint.Submit(context.Background(), samplePayload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID != "sim-1" {
		t.Errorf("expected sim-1, got %q", receipt.ID)
	}

	list, err := endpoint.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 simulation, got %d", len(list))
	}
	if list[0]["id"] != "sim-1" || list[0]["nome"] != "Maria Souza" {
		t.Errorf("unexpected entry: %v", list[0])
	}
}

func TestLocalEndpoint_SubmitInvalidPayload(t *testing.T) {
	s, repo := newTestSimulationService(repository.NewMemoryCache())

	payload := samplePayload()
	payload.PlanID = 0
	_, err := NewLocalEndpoint(s).Submit(context.Background(), payload)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if records, _ := repo.List(context.Background()); len(records) != 0 {
		t.Errorf("expected nothing stored, got %d", len(records))
	}
}
