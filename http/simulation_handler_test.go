package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"consorcio-simulator/domain"
	"consorcio-simulator/service"
)

const validSimulationBody = `{
	"consorcioId": 1,
	"nome": "Maria Souza",
	"email": "maria@example.com",
	"valorDesejado": 12000,
	"aceiteContrato": true,
	"numeroParcelas": 80,
	"valorParcelaComSeguro": 153.75,
	"valorParcelaSemSeguro": 150
}`

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSimulationHandler_CreateListGet(t *testing.T) {
	router := newTestRouter(t, &stubSubmitter{})

	w := postJSON(router, "/api/simulations", validSimulationBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created map[string]any
	json.NewDecoder(w.Body).Decode(&created)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("expected an id, got %v", created)
	}
	if created["nome"] != "Maria Souza" {
		t.Errorf("expected echoed nome, got %v", created["nome"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simulations", nil))
	var list []domain.SimulationReceipt
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("unexpected list: %+v", list)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simulations/"+id, nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/simulations/desconhecida", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestSimulationHandler_Create_Invalid(t *testing.T) {
	router := newTestRouter(t, &stubSubmitter{})

	w := postJSON(router, "/api/simulations", `{"consorcioId": 1, "nome": "Al"}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var resp errorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Fields["nome"] == "" || resp.Fields["email"] == "" {
		t.Errorf("expected field messages, got %+v", resp.Fields)
	}
}

func TestSimulationHandler_Create_BadRequest(t *testing.T) {
	router := newTestRouter(t, &stubSubmitter{})

	w := postJSON(router, "/api/simulations", `{invalid-json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/simulations", bytes.NewBufferString(validSimulationBody))
	req.Header.Set("Content-Type", "text/plain")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", w.Code)
	}
}

// The submitter pointed at the local endpoint completes the whole flow.
func TestSimulationSubmitter_AgainstLocalEndpoint(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t, &stubSubmitter{}))
	defer server.Close()

	submitter := service.NewSimulationSubmitter(server.URL + "/api/simulations")
	receipt, err := submitter.Submit(context.Background(), domain.SimulationPayload{
		PlanID: 2,
		SimulationForm: domain.SimulationForm{
			CustomerName:      "João Lima",
			CustomerEmail:     "joao@example.com",
			DesiredValue:      13000,
			InstallmentChoice: 60,
		},
		InstallmentWithInsurance:    13000.0 / 60 * 1.025,
		InstallmentWithoutInsurance: 13000.0 / 60,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID == "" {
		t.Errorf("expected an id")
	}
	if receipt.Fields["email"] != "joao@example.com" {
		t.Errorf("expected echoed email, got %v", receipt.Fields["email"])
	}

	list, err := submitter.List(context.Background())
	if err != nil || len(list) != 1 {
		t.Errorf("expected 1 remote simulation, got %d (err=%v)", len(list), err)
	}
}
