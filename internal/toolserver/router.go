// Package toolserver serves the tool registry over HTTP so a host runtime can
// list tools and invoke them by name.
package toolserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thenewheretics/blogtools/internal/tools"
)

// NewRouter creates the HTTP router for the given registry.
func NewRouter(reg *tools.Registry) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware. RequestID runs first so the others can see the ID.
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Get("/healthz", health)
	r.Get("/tools", listTools(reg))
	r.Post("/tools/{name}", invokeTool(reg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
