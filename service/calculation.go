package service

import (
	"errors"
	"math"

	"consorcio-simulator/domain"
)

var ErrInvalidInstallmentChoice = errors.New("número de parcelas inválido")

// roundTo2Decimals rounds to cents for display and API responses.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// CalculateInstallments splits totalValue evenly over the chosen number of
// installments and adds the flat insurance markup. Only offered choices are
// accepted.
func CalculateInstallments(
	totalValue float64,
	installments int,
) (domain.CalculationResult, error) {

	if !domain.IsOfferedInstallment(installments) {
		return domain.CalculationResult{}, ErrInvalidInstallmentChoice
	}

	base := totalValue / float64(installments)

	return domain.CalculationResult{
		InstallmentWithInsurance:    base * (1 + domain.InsuranceRate),
		InstallmentWithoutInsurance: base,
	}, nil
}

// Rounded returns r with both values rounded to cents.
func Rounded(r domain.CalculationResult) domain.CalculationResult {
	return domain.CalculationResult{
		InstallmentWithInsurance:    roundTo2Decimals(r.InstallmentWithInsurance),
		InstallmentWithoutInsurance: roundTo2Decimals(r.InstallmentWithoutInsurance),
	}
}
