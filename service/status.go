package service

import "consorcio-simulator/domain"

// Severity is the display tier of a status tag.
type Severity string

const (
	SeveritySuccess   Severity = "success"
	SeverityDanger    Severity = "danger"
	SeverityInfo      Severity = "info"
	SeveritySecondary Severity = "secondary"
)

func StatusSeverity(status domain.Status) Severity {
	switch status {
	case domain.StatusAvailable:
		return SeveritySuccess
	case domain.StatusSoldOut:
		return SeverityDanger
	case domain.StatusForming:
		return SeverityInfo
	default:
		return SeveritySecondary
	}
}
