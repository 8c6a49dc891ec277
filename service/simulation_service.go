package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"consorcio-simulator/domain"
	"consorcio-simulator/repository"
)

// SimulationService backs the local stand-in for the remote simulation
// endpoint: it validates, stores and acknowledges simulations.
type SimulationService struct {
	repo  repository.SimulationRepository
	cache repository.CacheRepository
	newID func() string
}

func NewSimulationService(
	repo repository.SimulationRepository,
	cache repository.CacheRepository,
) *SimulationService {
	return &SimulationService{
		repo:  repo,
		cache: cache,
		newID: uuid.NewString,
	}
}

// Register stores a simulation and returns its receipt. The receipt echoes
// every payload field.
func (s *SimulationService) Register(
	ctx context.Context,
	payload domain.SimulationPayload,
) (domain.SimulationReceipt, error) {

	if err := validateStruct(payload); err != nil {
		return domain.SimulationReceipt{}, err
	}

	fields, err := payloadFields(payload)
	if err != nil {
		return domain.SimulationReceipt{}, err
	}

	receipt := domain.SimulationReceipt{
		ID:     s.newID(),
		Fields: fields,
	}

	if err := s.repo.Save(ctx, repository.SimulationRecord{Receipt: receipt, Payload: payload}); err != nil {
		return domain.SimulationReceipt{}, fmt.Errorf("save simulation: %w", err)
	}

	// cache is only a shortcut for Get, a failure here is not critical
	if data, err := json.Marshal(receipt); err == nil {
		if err := s.cache.Set(ctx, receiptCacheKeyPrefix+receipt.ID, string(data)); err != nil {
			log.Printf("Warning: failed to cache simulation %s: %v", receipt.ID, err)
		}
	}

	return receipt, nil
}

func (s *SimulationService) List(ctx context.Context) ([]domain.SimulationReceipt, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SimulationReceipt, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Receipt)
	}
	return out, nil
}

// Get reads a receipt from the cache, falling back to the repository.
func (s *SimulationService) Get(ctx context.Context, id string) (domain.SimulationReceipt, bool, error) {
	if cached, ok := s.cache.Get(ctx, receiptCacheKeyPrefix+id); ok {
		var receipt domain.SimulationReceipt
		if err := json.Unmarshal([]byte(cached), &receipt); err == nil {
			return receipt, true, nil
		}
		log.Printf("Warning: discarding unreadable cached simulation %s", id)
	}

	rec, ok, err := s.repo.Get(ctx, id)
	if err != nil || !ok {
		return domain.SimulationReceipt{}, false, err
	}
	return rec.Receipt, true, nil
}

// LocalEndpoint lets the detail page send simulations straight to a
// SimulationService, without an HTTP round trip to this same server.
type LocalEndpoint struct {
	simulations *SimulationService
}

func NewLocalEndpoint(simulations *SimulationService) *LocalEndpoint {
	return &LocalEndpoint{simulations: simulations}
}

func (e *LocalEndpoint) Submit(ctx context.Context, payload domain.SimulationPayload) (domain.SimulationReceipt, error) {
	return e.simulations.Register(ctx, payload)
}

// List returns the stored receipts flattened the way the remote endpoint
// answers: payload fields plus "id".
func (e *LocalEndpoint) List(ctx context.Context) ([]map[string]any, error) {
	receipts, err := e.simulations.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(receipts))
	for _, r := range receipts {
		entry := make(map[string]any, len(r.Fields)+1)
		for k, v := range r.Fields {
			entry[k] = v
		}
		entry["id"] = r.ID
		out = append(out, entry)
	}
	return out, nil
}

func payloadFields(payload domain.SimulationPayload) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling payload: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("error unmarshaling payload: %w", err)
	}
	return fields, nil
}
