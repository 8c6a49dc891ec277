package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidStatus = errors.New("status de consórcio inválido")

// Status is the group's availability. Only the three values below are valid.
type Status string

const (
	StatusAvailable Status = "Disponível"
	StatusSoldOut   Status = "Esgotado"
	StatusForming   Status = "Em formação"
)

// ParseStatus accepts exactly the wire values of the three statuses.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusSoldOut, StatusForming:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// Plan is one consórcio group offered in the catalog.
type Plan struct {
	ID                      int     `json:"id" yaml:"id"`
	ItemDescription         string  `json:"moto" yaml:"moto"`
	TotalValue              float64 `json:"valorTotal" yaml:"valor_total"`
	InstallmentCount        int     `json:"quantidadeParcelas" yaml:"quantidade_parcelas"`
	MonthlyInstallmentValue float64 `json:"parcelaMensal" yaml:"parcela_mensal"`
	TermMonths              int     `json:"prazo" yaml:"prazo"`
	Status                  Status  `json:"status" yaml:"status"`
}
