package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"almostcircle/internal/codec"
	"almostcircle/internal/domain"
	"almostcircle/internal/service"
)

// maxBodySize caps request bodies for create, update and import
const maxBodySize = 1 << 20

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/x-yaml",
	"csv":  "text/csv",
}

// ShapeHandler handles the shape API
type ShapeHandler struct {
	svc *service.ShapeService
}

// NewShapeHandler creates a new shape handler
func NewShapeHandler(svc *service.ShapeService) *ShapeHandler {
	return &ShapeHandler{svc: svc}
}

// ShapeResponse describes one stored shape
type ShapeResponse struct {
	Kind       domain.Kind    `json:"kind"`
	ID         int            `json:"id"`
	Attributes map[string]int `json:"attributes"`
	Area       int            `json:"area"`
	Text       string         `json:"text"`
}

func newShapeResponse(s domain.Shape) ShapeResponse {
	return ShapeResponse{
		Kind:       s.Kind(),
		ID:         s.ID(),
		Attributes: s.ToDictionary(),
		Area:       s.Area(),
		Text:       s.String(),
	}
}

// Routes mounts the shape endpoints on r
func (h *ShapeHandler) Routes(r chi.Router) {
	r.Route("/shapes/{kind}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/display", h.Display)
	})
	r.Post("/import/{kind}", h.Import)
	r.Get("/export/{kind}", h.Export)
	r.Post("/snapshot/{kind}", h.Snapshot)
	r.Post("/sync/{kind}", h.Sync)
}

// kindParam parses the {kind} path parameter, writing a 404 when unknown
func (h *ShapeHandler) kindParam(w http.ResponseWriter, r *http.Request) (domain.Kind, bool) {
	kind, err := domain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, "Unknown shape kind", err.Error(), http.StatusNotFound)
		return "", false
	}
	return kind, true
}

// target parses both {kind} and {id}
func (h *ShapeHandler) target(w http.ResponseWriter, r *http.Request) (domain.Kind, int, bool) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return "", 0, false
	}
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, "Invalid shape ID", "id must be an integer", http.StatusBadRequest)
		return "", 0, false
	}
	return kind, id, true
}

// List returns every shape of a kind
func (h *ShapeHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	shapes, err := h.svc.List(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, "Failed to list shapes", err, http.StatusInternalServerError)
		return
	}

	resp := make([]ShapeResponse, 0, len(shapes))
	for _, s := range shapes {
		resp = append(resp, newShapeResponse(s))
	}
	writeJSON(w, r, resp, http.StatusOK)
}

// Create builds a shape from a JSON object of attributes
func (h *ShapeHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}

	var attrs map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&attrs); err != nil && err != io.EOF {
		writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	shape, err := h.svc.Create(r.Context(), kind, attrs)
	if err != nil {
		writeServiceError(w, r, "Failed to create shape", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, newShapeResponse(shape), http.StatusCreated)
}

// Get returns a single shape
func (h *ShapeHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.target(w, r)
	if !ok {
		return
	}
	shape, err := h.svc.Get(r.Context(), kind, id)
	if err != nil {
		writeServiceError(w, r, "Failed to get shape", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, newShapeResponse(shape), http.StatusOK)
}

// Update applies a JSON object of keyword attributes, or a JSON array of
// positional ones in id, width, height, x, y order (id, size, x, y for squares)
func (h *ShapeHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.target(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	var shape domain.Shape
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		var args []any
		if err := json.Unmarshal(trimmed, &args); err != nil {
			writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		shape, err = h.svc.UpdateArgs(r.Context(), kind, id, args...)
	} else {
		var attrs map[string]any
		if err := json.Unmarshal(trimmed, &attrs); err != nil {
			writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}
		shape, err = h.svc.Update(r.Context(), kind, id, attrs)
	}
	if err != nil {
		writeServiceError(w, r, "Failed to update shape", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, newShapeResponse(shape), http.StatusOK)
}

// Delete removes a shape
func (h *ShapeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), kind, id); err != nil {
		writeServiceError(w, r, "Failed to delete shape", err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Display renders the shape as rows of '#'
func (h *ShapeHandler) Display(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.target(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Display(r.Context(), kind, id, &buf); err != nil {
		writeServiceError(w, r, "Failed to display shape", err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	buf.WriteTo(w)
}

// Import stores every shape in the request body. The format query
// parameter selects the codec and defaults to json.
func (h *ShapeHandler) Import(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	format := formatParam(r)
	if _, err := codec.Lookup(format); err != nil {
		writeError(w, r, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	shapes, err := h.svc.Import(r.Context(), kind, format, io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeServiceError(w, r, "Failed to import shapes", err, http.StatusBadRequest)
		return
	}
	writeJSON(w, r, map[string]any{"kind": kind, "imported": len(shapes)}, http.StatusOK)
}

// Export writes every shape of a kind in the requested format
func (h *ShapeHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	format := formatParam(r)
	if _, err := codec.Lookup(format); err != nil {
		writeError(w, r, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	// Buffer so a failed export can still produce an error response
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), kind, format, &buf); err != nil {
		writeServiceError(w, r, "Failed to export shapes", err, http.StatusInternalServerError)
		return
	}

	if ct, ok := contentTypes[format]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", kind, format))
	buf.WriteTo(w)
}

func formatParam(r *http.Request) string {
	format := r.URL.Query().Get("format")
	if format == "" {
		return "json"
	}
	if format == "yml" {
		return "yaml"
	}
	return format
}

// Snapshot writes the stored shapes of a kind to the data directory
func (h *ShapeHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Snapshot(r.Context(), kind); err != nil {
		writeServiceError(w, r, "Failed to save shapes", err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync replaces the stored shapes of a kind with the data directory file
func (h *ShapeHandler) Sync(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kindParam(w, r)
	if !ok {
		return
	}
	n, err := h.svc.SyncFromStore(r.Context(), kind)
	if err != nil {
		writeServiceError(w, r, "Failed to sync shapes", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, map[string]any{"kind": kind, "synced": n}, http.StatusOK)
}
