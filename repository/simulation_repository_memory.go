package repository

import (
	"context"
	"sync"
)

// SimulationRepositoryMemory is an in-memory implementation of SimulationRepository.
type SimulationRepositoryMemory struct {
	mu   sync.RWMutex
	data []SimulationRecord
}

// NewSimulationRepositoryMemory creates a new in-memory simulation repository.
func NewSimulationRepositoryMemory() *SimulationRepositoryMemory {
	return &SimulationRepositoryMemory{
		data: []SimulationRecord{},
	}
}

// Save stores the simulation in memory, in submission order.
func (r *SimulationRepositoryMemory) Save(ctx context.Context, record SimulationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(r.data, record)
	return nil
}

func (r *SimulationRepositoryMemory) List(ctx context.Context) ([]SimulationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SimulationRecord, len(r.data))
	copy(out, r.data)
	return out, nil
}

func (r *SimulationRepositoryMemory) Get(ctx context.Context, id string) (SimulationRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.data {
		if rec.Receipt.ID == id {
			return rec, true, nil
		}
	}
	return SimulationRecord{}, false, nil
}
