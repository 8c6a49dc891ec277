package http

import (
	"net/http"
	"strconv"

	"consorcio-simulator/domain"
	"consorcio-simulator/service"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type catalogItem struct {
	domain.Plan
	Severity service.Severity `json:"severidade"`
}

type installmentQuote struct {
	InstallmentChoice int `json:"numeroParcelas"`
	domain.CalculationResult
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "não foi possível carregar os consórcios", nil)
		return
	}

	items := make([]catalogItem, 0, len(plans))
	for _, p := range plans {
		items = append(items, catalogItem{Plan: p, Severity: service.StatusSeverity(p.Status)})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, catalogItem{Plan: plan, Severity: service.StatusSeverity(plan.Status)})
}

// Installments quotes the derived values for ?n=, or for every offered
// choice when n is absent.
func (h *CatalogHandler) Installments(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.lookup(w, r)
	if !ok {
		return
	}

	choices := domain.InstallmentOptions
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, service.ErrInvalidInstallmentChoice.Error(), nil)
			return
		}
		choices = []int{n}
	}

	quotes := make([]installmentQuote, 0, len(choices))
	for _, n := range choices {
		result, err := service.CalculateInstallments(plan.TotalValue, n)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		quotes = append(quotes, installmentQuote{InstallmentChoice: n, CalculationResult: service.Rounded(result)})
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (h *CatalogHandler) lookup(w http.ResponseWriter, r *http.Request) (domain.Plan, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "consórcio não encontrado", nil)
		return domain.Plan{}, false
	}

	plan, ok, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "não foi possível carregar o consórcio", nil)
		return domain.Plan{}, false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "consórcio não encontrado", nil)
		return domain.Plan{}, false
	}
	return plan, true
}
