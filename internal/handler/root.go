package handler

import (
	"net/http"

	"github.com/sakif/snippetbin/internal/highlight"
)

// RootHandler serves the API index and the two rendering registries.
//
// The registries matter for clients: language and style are validated
// against enumerated sets, and these endpoints ARE the enumeration — a
// frontend populates its dropdowns from here instead of hardcoding a list
// that drifts out of sync with the server.
type RootHandler struct{}

// NewRootHandler creates a RootHandler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleIndex returns the API's entry points.
//
// HTTP: GET /api
func (h *RootHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"snippets":  "/api/snippets",
		"users":     "/api/users",
		"languages": "/api/languages",
		"styles":    "/api/styles",
	})
}

// HandleLanguages returns every language the highlighter accepts.
//
// HTTP: GET /api/languages
func (h *RootHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, highlight.Languages())
}

// HandleStyles returns every colour style the highlighter accepts.
//
// HTTP: GET /api/styles
func (h *RootHandler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, highlight.Styles())
}
