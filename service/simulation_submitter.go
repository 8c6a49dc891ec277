package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"consorcio-simulator/domain"
)

var ErrMissingReceiptID = errors.New("resposta sem id de registro")

// SimulationEndpoint receives simulations from the detail page and lists the
// ones already sent.
type SimulationEndpoint interface {
	Submitter
	List(ctx context.Context) ([]map[string]any, error)
}

// SimulationSubmitter sends simulations to the remote endpoint. Failures are
// returned to the caller as they are; there is no retry.
type SimulationSubmitter struct {
	url        string
	httpClient *http.Client
}

func NewSimulationSubmitter(url string) *SimulationSubmitter {
	if url == "" {
		url = DefaultSimulationURL
	}
	return &SimulationSubmitter{
		url: url,
		httpClient: &http.Client{
			Timeout: SubmitTimeout,
		},
	}
}

// Submit posts the payload and returns the endpoint's acknowledgment.
func (s *SimulationSubmitter) Submit(
	ctx context.Context,
	payload domain.SimulationPayload,
) (domain.SimulationReceipt, error) {

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return domain.SimulationReceipt{}, fmt.Errorf("error marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return domain.SimulationReceipt{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var fields map[string]any
	if err := s.do(req, &fields); err != nil {
		return domain.SimulationReceipt{}, err
	}

	rawID, ok := fields["id"]
	if !ok || rawID == nil {
		return domain.SimulationReceipt{}, ErrMissingReceiptID
	}
	delete(fields, "id")

	return domain.SimulationReceipt{
		ID:     fmt.Sprint(rawID),
		Fields: fields,
	}, nil
}

// List fetches the simulations known to the remote endpoint.
func (s *SimulationSubmitter) List(ctx context.Context) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var out []map[string]any
	if err := s.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SimulationSubmitter) do(req *http.Request, into any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("simulation endpoint returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}
	return nil
}
