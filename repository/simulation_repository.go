package repository

import (
	"context"

	"consorcio-simulator/domain"
)

type SimulationRecord struct {
	Receipt domain.SimulationReceipt
	Payload domain.SimulationPayload
}

type SimulationRepository interface {
	Save(ctx context.Context, record SimulationRecord) error
	List(ctx context.Context) ([]SimulationRecord, error)
	Get(ctx context.Context, id string) (SimulationRecord, bool, error)
}
