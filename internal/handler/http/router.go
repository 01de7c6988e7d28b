package http

import (
	"net/http"
)

// Middleware decorates a single route.
type Middleware func(http.Handler) http.Handler

type Handlers struct {
	Products *ProductHandler
	Session  *SessionHandler
	Health   *HealthHandler
	// StaticDir is served at "/" when set.
	StaticDir string
	// AdminOnly guards the mutating product routes; nil leaves them open.
	AdminOnly Middleware
}

func (h Handlers) guard(fn http.HandlerFunc) http.Handler {
	if h.AdminOnly == nil {
		return fn
	}
	return h.AdminOnly(fn)
}

func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.Products.GetAll)
	mux.HandleFunc("GET /api/products/{id}", h.Products.GetByID)
	mux.Handle("POST /api/products", h.guard(h.Products.Create))
	mux.Handle("PUT /api/products/{id}", h.guard(h.Products.Update))
	mux.Handle("DELETE /api/products/{id}", h.guard(h.Products.Delete))

	if h.Session != nil {
		mux.HandleFunc("POST /api/session", h.Session.Login)
	}
	if h.Health != nil {
		mux.HandleFunc("GET /healthz", h.Health.Check)
	}

	if h.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(h.StaticDir)))
	} else {
		mux.HandleFunc("/", hello)
	}
	return mux
}

func hello(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"data": "hello-world"})
}
