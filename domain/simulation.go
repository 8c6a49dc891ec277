package domain

// InstallmentOptions are the installment counts offered on the detail page,
// first option being the default.
var InstallmentOptions = []int{80, 72, 60, 48, 36, 24, 12}

const (
	DefaultInstallmentChoice = 80
	MinDesiredValue          = 1000.0
	InsuranceRate            = 0.025
)

type SimulationForm struct {
	CustomerName      string  `json:"nome" validate:"required,min=3"`
	CustomerEmail     string  `json:"email" validate:"required,email"`
	DesiredValue      float64 `json:"valorDesejado" validate:"required,finite,gte=1000"`
	ContractAccepted  bool    `json:"aceiteContrato"`
	InstallmentChoice int     `json:"numeroParcelas" validate:"required,oneof=80 72 60 48 36 24 12"`
}

type CalculationResult struct {
	InstallmentWithInsurance    float64 `json:"valorParcelaComSeguro"`
	InstallmentWithoutInsurance float64 `json:"valorParcelaSemSeguro"`
}

// SimulationPayload is the body sent to the simulation endpoint.
type SimulationPayload struct {
	PlanID int `json:"consorcioId" validate:"required,gt=0"`
	SimulationForm
	InstallmentWithInsurance    float64 `json:"valorParcelaComSeguro" validate:"gt=0"`
	InstallmentWithoutInsurance float64 `json:"valorParcelaSemSeguro" validate:"gt=0"`
}

// SimulationReceipt is the endpoint's acknowledgment: the id it assigned plus
// whatever fields it echoed back.
type SimulationReceipt struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"campos,omitempty"`
}

func IsOfferedInstallment(n int) bool {
	for _, opt := range InstallmentOptions {
		if opt == n {
			return true
		}
	}
	return false
}
