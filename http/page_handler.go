package http

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"consorcio-simulator/domain"
	"consorcio-simulator/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{"brl": service.FormatBRL}).
		ParseFS(templateFS, "templates/*.html"),
)

// PageHandler renders the catalog list, the plan detail pages and the list
// of sent simulations. Each detail request is one page visit: it opens a
// DetailSession and closes it before returning.
type PageHandler struct {
	catalog  *service.CatalogService
	endpoint service.SimulationEndpoint
}

func NewPageHandler(catalog *service.CatalogService, endpoint service.SimulationEndpoint) *PageHandler {
	return &PageHandler{catalog: catalog, endpoint: endpoint}
}

type listItem struct {
	Plan     domain.Plan
	Severity service.Severity
}

type listView struct {
	Items []listItem
	Error string
}

type notice struct {
	Kind string
	Text string
}

type detailView struct {
	Plan     *domain.Plan
	Severity service.Severity
	Form     *domain.SimulationForm
	Result   *domain.CalculationResult
	Options  []int
	Errors   map[string]string
	Notice   *notice
}

func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.catalog.ListAll(r.Context())
	if err != nil {
		render(w, http.StatusInternalServerError, "list.html", listView{Error: "Não foi possível carregar os consórcios."})
		return
	}

	view := listView{Items: make([]listItem, 0, len(plans))}
	for _, p := range plans {
		view.Items = append(view.Items, listItem{Plan: p, Severity: service.StatusSeverity(p.Status)})
	}
	render(w, http.StatusOK, "list.html", view)
}

// Detail shows the plan with its simulation form. ?parcelas= preselects the
// number of installments.
func (h *PageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	session := h.openSession(r)
	if session == nil {
		return
	}
	defer session.Close()

	if session.State() == service.StateNotFound {
		h.renderDetail(w, http.StatusNotFound, session, nil)
		return
	}

	if raw := r.URL.Query().Get("parcelas"); raw != "" {
		n, _ := strconv.Atoi(raw)
		session.SetInstallmentChoice(n)
		session.Touch(service.FieldInstallmentChoice)
	}
	h.renderDetail(w, http.StatusOK, session, nil)
}

// DetailAction handles the form: acao=calcular recomputes, acao=enviar
// submits and acao=limpar clears the form.
func (h *PageHandler) DetailAction(w http.ResponseWriter, r *http.Request) {
	session := h.openSession(r)
	if session == nil {
		return
	}
	defer session.Close()

	if session.State() == service.StateNotFound {
		h.renderDetail(w, http.StatusNotFound, session, nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	applyForm(session, r.PostForm)

	switch r.PostForm.Get("acao") {
	case "limpar":
		session.Reset()
		h.renderDetail(w, http.StatusOK, session, nil)

	case "enviar":
		receipt, err := session.Submit(r.Context())
		status, n := submitOutcome(receipt, err)
		h.renderDetail(w, status, session, n)

	default:
		h.renderDetail(w, http.StatusOK, session, nil)
	}
}

type historyRow struct {
	ID            string
	Name          string
	Email         string
	PlanID        string
	Installments  string
	WithInsurance string
}

type historyView struct {
	Rows  []historyRow
	Error string
}

// History lists the simulations the endpoint already received.
func (h *PageHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.endpoint.List(r.Context())
	if err != nil {
		log.Printf("Warning: failed to list simulations: %v", err)
		render(w, http.StatusBadGateway, "history.html", historyView{Error: "Não foi possível carregar as simulações enviadas."})
		return
	}

	view := historyView{Rows: make([]historyRow, 0, len(entries))}
	for _, e := range entries {
		view.Rows = append(view.Rows, historyRow{
			ID:            entryText(e, "id"),
			Name:          entryText(e, "nome"),
			Email:         entryText(e, "email"),
			PlanID:        entryText(e, "consorcioId"),
			Installments:  entryText(e, "numeroParcelas"),
			WithInsurance: entryMoney(e, "valorParcelaComSeguro"),
		})
	}
	render(w, http.StatusOK, "history.html", view)
}

// entryText reads a field of a remote entry; the remote may not know it.
func entryText(entry map[string]any, key string) string {
	v, ok := entry[key]
	if !ok || v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

func entryMoney(entry map[string]any, key string) string {
	v, err := strconv.ParseFloat(entryText(entry, key), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return "-"
	}
	return service.FormatBRL(v)
}

func submitOutcome(receipt domain.SimulationReceipt, err error) (int, *notice) {
	var ve *service.ValidationError
	var se *service.SubmissionError

	switch {
	case err == nil:
		return http.StatusOK, &notice{Kind: "success", Text: fmt.Sprintf("Simulação enviada! ID de registro: %s", receipt.ID)}
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, &notice{Kind: "error", Text: "Verifique os campos destacados."}
	case errors.Is(err, service.ErrPrematureSubmission):
		return http.StatusConflict, &notice{Kind: "warn", Text: "Aguarde o cálculo das parcelas ser concluído."}
	case errors.As(err, &se):
		return http.StatusBadGateway, &notice{Kind: "error", Text: "Não foi possível enviar a simulação. Tente novamente."}
	default:
		return http.StatusConflict, &notice{Kind: "error", Text: err.Error()}
	}
}

// openSession resolves the route id. It returns nil when the client went
// away before the lookup settled.
func (h *PageHandler) openSession(r *http.Request) *service.DetailSession {
	session := service.NewDetailSession(h.catalog, h.endpoint)

	select {
	case <-session.Navigate(r.Context(), r.PathValue("id")):
		return session
	case <-r.Context().Done():
		session.Close()
		return nil
	}
}

// applyForm copies the posted fields into the session. Non-empty fields
// count as touched.
func applyForm(session *service.DetailSession, form url.Values) {
	if _, ok := form[service.FieldCustomerName]; ok {
		v := strings.TrimSpace(form.Get(service.FieldCustomerName))
		session.SetCustomerName(v)
		touchIfFilled(session, service.FieldCustomerName, v)
	}
	if _, ok := form[service.FieldCustomerEmail]; ok {
		v := strings.TrimSpace(form.Get(service.FieldCustomerEmail))
		session.SetCustomerEmail(v)
		touchIfFilled(session, service.FieldCustomerEmail, v)
	}
	if _, ok := form[service.FieldDesiredValue]; ok {
		raw := form.Get(service.FieldDesiredValue)
		session.SetDesiredValue(parseAmount(raw))
		touchIfFilled(session, service.FieldDesiredValue, raw)
	}
	session.SetContractAccepted(form.Get(service.FieldContractAccepted) != "")

	if raw, ok := form[service.FieldInstallmentChoice]; ok {
		n, _ := strconv.Atoi(strings.TrimSpace(raw[0]))
		session.SetInstallmentChoice(n)
		touchIfFilled(session, service.FieldInstallmentChoice, raw[0])
	}
}

func touchIfFilled(session *service.DetailSession, field, value string) {
	if strings.TrimSpace(value) != "" {
		session.Touch(field)
	}
}

// parseAmount accepts "15000", "15000.50" and the Brazilian "R$ 15.000,50".
// Anything unreadable, Inf and NaN included, becomes 0 and fails validation.
func parseAmount(raw string) float64 {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

func (h *PageHandler) renderDetail(w http.ResponseWriter, status int, session *service.DetailSession, n *notice) {
	view := detailView{
		Options: domain.InstallmentOptions,
		Errors:  session.FieldErrors(),
		Notice:  n,
	}

	if plan, ok := session.Plan(); ok {
		view.Plan = &plan
		view.Severity = service.StatusSeverity(plan.Status)
		view.Form = session.Form()
	}
	if result, ok := session.Result(); ok {
		view.Result = &result
	}

	render(w, status, "detail.html", view)
}

func render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
