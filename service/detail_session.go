package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"

	"consorcio-simulator/domain"
)

var (
	ErrPrematureSubmission = errors.New("aguarde o cálculo das parcelas ser concluído")
	ErrSessionNotReady     = errors.New("simulação indisponível para este consórcio")
)

// SubmissionError wraps a failure reported by the Submitter.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return "falha ao enviar simulação: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

type PlanLookup interface {
	GetByID(ctx context.Context, id int) (domain.Plan, bool, error)
}

type Submitter interface {
	Submit(ctx context.Context, payload domain.SimulationPayload) (domain.SimulationReceipt, error)
}

type SessionState int

const (
	StateResolving SessionState = iota
	StateNotFound
	StateReady
	StateSubmitting
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateNotFound:
		return "not_found"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Form field names, as posted by the detail page and used in validation
// messages.
const (
	FieldCustomerName      = "nome"
	FieldCustomerEmail     = "email"
	FieldDesiredValue      = "valorDesejado"
	FieldContractAccepted  = "aceiteContrato"
	FieldInstallmentChoice = "numeroParcelas"
)

var formFields = []string{
	FieldCustomerName,
	FieldCustomerEmail,
	FieldDesiredValue,
	FieldContractAccepted,
	FieldInstallmentChoice,
}

// DetailSession is one visit to a plan's detail page. It resolves the plan
// from the route id, owns the simulation form and keeps the derived
// installment values in step with the installment choice.
//
// Only the most recent Navigate may change the session: every call bumps a
// request token and cancels the previous lookup, and a lookup that completes
// with a stale token is dropped.
type DetailSession struct {
	catalog   PlanLookup
	submitter Submitter
	choices   *choiceStream

	mu           sync.Mutex
	state        SessionState
	token        uint64
	cancelLookup context.CancelFunc
	lookupErr    error
	plan         *domain.Plan
	form         *domain.SimulationForm
	result       *domain.CalculationResult
	touched      map[string]bool
	sub          *Subscription
}

func NewDetailSession(catalog PlanLookup, submitter Submitter) *DetailSession {
	return &DetailSession{
		catalog:   catalog,
		submitter: submitter,
		choices:   newChoiceStream(),
		state:     StateResolving,
		touched:   map[string]bool{},
	}
}

func parseRouteID(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Navigate starts resolving the plan for rawID and returns a channel that is
// closed once this navigation has settled, whether it was applied or
// superseded by a later one.
func (s *DetailSession) Navigate(ctx context.Context, rawID string) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		close(done)
		return done
	}

	s.token++
	token := s.token
	if s.cancelLookup != nil {
		s.cancelLookup()
		s.cancelLookup = nil
	}
	s.clearFormLocked()
	s.lookupErr = nil

	id, ok := parseRouteID(rawID)
	if !ok {
		s.state = StateNotFound
		s.mu.Unlock()
		close(done)
		return done
	}

	s.state = StateResolving
	lookupCtx, cancel := context.WithCancel(ctx)
	s.cancelLookup = cancel
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		plan, found, err := s.catalog.GetByID(lookupCtx, id)

		s.mu.Lock()
		defer s.mu.Unlock()

		if token != s.token || s.state == StateClosed {
			return
		}
		s.cancelLookup = nil

		if err != nil || !found {
			s.lookupErr = err
			s.state = StateNotFound
			return
		}

		s.plan = &plan
		s.buildFormLocked()
		s.state = StateReady
	}()

	return done
}

// buildFormLocked sets up the form with the plan defaults, subscribes the
// recomputation and runs it once for the default choice.
func (s *DetailSession) buildFormLocked() {
	s.form = &domain.SimulationForm{
		DesiredValue:      s.plan.TotalValue,
		InstallmentChoice: domain.DefaultInstallmentChoice,
	}
	s.touched = map[string]bool{}
	s.sub = s.choices.Subscribe(s.onInstallmentChange)
	s.recomputeLocked(s.form.InstallmentChoice)
}

func (s *DetailSession) clearFormLocked() {
	s.sub.Unsubscribe()
	s.sub = nil
	s.plan = nil
	s.form = nil
	s.result = nil
	s.touched = map[string]bool{}
}

// onInstallmentChange recomputes from the form, not from the published
// value: publications from concurrent setters may arrive out of order.
func (s *DetailSession) onInstallmentChange(int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed || s.plan == nil || s.form == nil {
		return
	}
	s.recomputeLocked(s.form.InstallmentChoice)
}

func (s *DetailSession) recomputeLocked(n int) {
	result, err := CalculateInstallments(s.plan.TotalValue, n)
	if err != nil {
		s.result = nil
		return
	}
	s.result = &result
}

// SetInstallmentChoice changes the chosen number of installments; the derived
// values are recomputed before it returns.
func (s *DetailSession) SetInstallmentChoice(n int) error {
	s.mu.Lock()
	if s.form == nil || s.state == StateClosed {
		s.mu.Unlock()
		return ErrSessionNotReady
	}
	s.form.InstallmentChoice = n
	s.mu.Unlock()

	s.choices.Publish(n)
	return nil
}

func (s *DetailSession) SetCustomerName(v string) error {
	return s.updateForm(func(f *domain.SimulationForm) { f.CustomerName = v })
}

func (s *DetailSession) SetCustomerEmail(v string) error {
	return s.updateForm(func(f *domain.SimulationForm) { f.CustomerEmail = v })
}

func (s *DetailSession) SetDesiredValue(v float64) error {
	return s.updateForm(func(f *domain.SimulationForm) { f.DesiredValue = v })
}

func (s *DetailSession) SetContractAccepted(v bool) error {
	return s.updateForm(func(f *domain.SimulationForm) { f.ContractAccepted = v })
}

func (s *DetailSession) updateForm(fn func(*domain.SimulationForm)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil || s.state == StateClosed {
		return ErrSessionNotReady
	}
	fn(s.form)
	return nil
}

// Touch marks a field as touched so its validation message is shown.
func (s *DetailSession) Touch(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[field] = true
}

// Submit validates the form and sends the simulation. Invalid input and a
// missing calculation are refused locally without calling the Submitter.
// After a successful submission the form goes back to the plan defaults.
func (s *DetailSession) Submit(ctx context.Context) (domain.SimulationReceipt, error) {
	s.mu.Lock()
	if s.state != StateReady || s.form == nil {
		s.mu.Unlock()
		return domain.SimulationReceipt{}, ErrSessionNotReady
	}

	form := *s.form
	if err := validateStruct(form); err != nil {
		for _, f := range formFields {
			s.touched[f] = true
		}
		s.mu.Unlock()
		return domain.SimulationReceipt{}, err
	}
	if s.result == nil {
		planID := s.plan.ID
		s.mu.Unlock()
		log.Printf("Warning: submission for consórcio %d before installments were calculated", planID)
		return domain.SimulationReceipt{}, ErrPrematureSubmission
	}

	token := s.token
	payload := domain.SimulationPayload{
		PlanID:                      s.plan.ID,
		SimulationForm:              form,
		InstallmentWithInsurance:    s.result.InstallmentWithInsurance,
		InstallmentWithoutInsurance: s.result.InstallmentWithoutInsurance,
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	receipt, err := s.submitter.Submit(ctx, payload)

	s.mu.Lock()
	if s.state == StateClosed || s.token != token {
		s.mu.Unlock()
		if err != nil {
			return domain.SimulationReceipt{}, &SubmissionError{Err: err}
		}
		return receipt, nil
	}
	s.state = StateReady
	if err != nil {
		s.mu.Unlock()
		log.Printf("Warning: failed to submit simulation for consórcio %d: %v", payload.PlanID, err)
		return domain.SimulationReceipt{}, &SubmissionError{Err: err}
	}

	log.Printf("simulation %s submitted for consórcio %d", receipt.ID, payload.PlanID)

	s.form = &domain.SimulationForm{DesiredValue: s.plan.TotalValue}
	s.touched = map[string]bool{}
	s.mu.Unlock()

	// publishing the default choice recomputes the derived values
	_ = s.SetInstallmentChoice(domain.InstallmentOptions[0])
	return receipt, nil
}

// Reset clears every field to its zero value. Unlike the reset after a
// submission, plan defaults are not restored, so the derived values are
// cleared until an installment choice is made again.
func (s *DetailSession) Reset() error {
	s.mu.Lock()
	if s.form == nil || s.state != StateReady {
		s.mu.Unlock()
		return ErrSessionNotReady
	}
	s.form = &domain.SimulationForm{}
	s.touched = map[string]bool{}
	s.mu.Unlock()

	s.choices.Publish(0)
	return nil
}

// Close ends the session: the installment subscription is released and any
// outstanding lookup is cancelled. Nothing is recomputed afterwards.
func (s *DetailSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.token++
	if s.cancelLookup != nil {
		s.cancelLookup()
		s.cancelLookup = nil
	}
	s.sub.Unsubscribe()
	s.sub = nil
}

func (s *DetailSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LookupErr is the catalog error behind a NotFound state, if any.
func (s *DetailSession) LookupErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupErr
}

func (s *DetailSession) Plan() (domain.Plan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return domain.Plan{}, false
	}
	return *s.plan, true
}

// Form returns a copy of the form, or nil when no plan has been resolved.
func (s *DetailSession) Form() *domain.SimulationForm {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form == nil {
		return nil
	}
	f := *s.form
	return &f
}

func (s *DetailSession) Result() (domain.CalculationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return domain.CalculationResult{}, false
	}
	return *s.result, true
}

func (s *DetailSession) Touched(field string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[field]
}

// FieldErrors validates the current form without submitting it. Only
// touched fields are reported.
func (s *DetailSession) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]string{}
	if s.form == nil {
		return out
	}

	var ve *ValidationError
	if err := validateStruct(*s.form); errors.As(err, &ve) {
		for field, msg := range ve.Fields {
			if s.touched[field] {
				out[field] = msg
			}
		}
	}
	return out
}
