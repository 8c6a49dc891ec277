package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"consorcio-simulator/domain"
	"consorcio-simulator/service"
)

// SimulationHandler serves the local simulation endpoint, shaped like the
// remote one: POST answers with the echoed fields plus an id.
type SimulationHandler struct {
	service *service.SimulationService
}

func NewSimulationHandler(service *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

func (h *SimulationHandler) Create(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var payload domain.SimulationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("Error decoding request body: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	receipt, err := h.service.Register(r.Context(), payload)
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusUnprocessableEntity, "dados inválidos", ve.Fields)
		return
	}
	if err != nil {
		log.Printf("Error registering simulation: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	body := make(map[string]any, len(receipt.Fields)+1)
	for k, v := range receipt.Fields {
		body[k] = v
	}
	body["id"] = receipt.ID
	writeJSON(w, http.StatusCreated, body)
}

func (h *SimulationHandler) List(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("Error listing simulations: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	receipt, ok, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("Error reading simulation: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "simulação não encontrada", nil)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
