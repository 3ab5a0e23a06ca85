package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/service"
)

// SnippetHandler exposes snippet CRUD plus the rendered-HTML view.
//
// The handler's only jobs: decode the request, find the authenticated user
// in the context, call the service, encode the result. All business rules
// (validation, rendering, ownership) live one layer down.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{
		snippets: snippets,
		logger:   logger,
	}
}

// createRequest is the JSON body for POST /api/snippets.
// There is no owner field — ownership comes from the session, full stop.
type createRequest struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Linenos  bool   `json:"linenos"`
	Language string `json:"language"`
	Style    string `json:"style"`
}

// updateRequest is the JSON body for PUT /api/snippets/{id}.
// Pointer fields make partial updates honest: an absent key decodes to nil
// ("don't touch"), an explicit value — including false or "" — decodes to a
// non-nil pointer ("set this").
type updateRequest struct {
	Title    *string `json:"title"`
	Code     *string `json:"code"`
	Linenos  *bool   `json:"linenos"`
	Language *string `json:"language"`
	Style    *string `json:"style"`
}

// HandleList returns snippets in ascending creation order.
//
// HTTP: GET /api/snippets?limit=20&offset=0
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	// Bad pagination values aren't worth a 400 — fall back to defaults.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	snippets, err := h.snippets.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleGetByID returns a single snippet.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleHighlight serves the stored rendering as an HTML page.
//
// HTTP: GET /api/snippets/{id}/highlight
//
// No rendering happens here — the document was produced when the snippet
// was last written, and it's guaranteed current because every write path
// re-renders.
func (h *SnippetHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(snippet.Highlighted)); err != nil {
		h.logger.Error("failed to write highlighted snippet", slog.String("error", err.Error()))
	}
}

// HandleCreate saves a new snippet owned by the authenticated user.
//
// HTTP: POST /api/snippets
// BODY: {"title": "...", "code": "...", "linenos": false, "language": "python", "style": "friendly"}
//
// The route is behind RequireAuth, so a missing identity here means the
// middleware wiring broke — treat it as unauthorized anyway.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required to create snippets",
		})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	snippet, err := h.snippets.Create(r.Context(), userID, service.SnippetInput{
		Title:    req.Title,
		Code:     req.Code,
		Linenos:  req.Linenos,
		Language: req.Language,
		Style:    req.Style,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate applies a partial update to an owned snippet.
//
// HTTP: PUT /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required to update snippets",
		})
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	snippet, err := h.snippets.Update(r.Context(), userID, chi.URLParam(r, "id"), service.SnippetPatch{
		Title:    req.Title,
		Code:     req.Code,
		Linenos:  req.Linenos,
		Language: req.Language,
		Style:    req.Style,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes an owned snippet.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required to delete snippets",
		})
		return
	}

	if err := h.snippets.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
