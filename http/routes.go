package http

import "net/http"

type Handlers struct {
	Pages       *PageHandler
	Catalog     *CatalogHandler
	Simulations *SimulationHandler
	Limiter     *RateLimiter
}

// NewRouter maps the page and API routes. "/" renders the list directly
// rather than redirecting to /catalog.
func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	limited := func(fn http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(h.Limiter, fn)
	}

	// --- páginas ---
	mux.HandleFunc("GET /{$}", h.Pages.List)
	mux.HandleFunc("GET /catalog", h.Pages.List)
	mux.HandleFunc("GET /catalog/{id}", h.Pages.Detail)
	mux.Handle("POST /catalog/{id}", limited(h.Pages.DetailAction))
	mux.HandleFunc("GET /simulacoes", h.Pages.History)

	// --- API ---
	mux.HandleFunc("GET /api/catalog", h.Catalog.List)
	mux.HandleFunc("GET /api/catalog/{id}", h.Catalog.Get)
	mux.HandleFunc("GET /api/catalog/{id}/installments", h.Catalog.Installments)

	mux.Handle("POST /api/simulations", limited(h.Simulations.Create))
	mux.HandleFunc("GET /api/simulations", h.Simulations.List)
	mux.HandleFunc("GET /api/simulations/{id}", h.Simulations.Get)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return RequestLogMiddleware(mux)
}
