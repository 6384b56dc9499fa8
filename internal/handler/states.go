package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"almostcircle/internal/domain"
	"almostcircle/internal/service"
)

// StateHandler handles the states and cities API
type StateHandler struct {
	svc *service.StateService
}

// NewStateHandler creates a new state handler
func NewStateHandler(svc *service.StateService) *StateHandler {
	return &StateHandler{svc: svc}
}

// StateRequest is the body of POST /api/states and PUT /api/states/{id}
type StateRequest struct {
	Name   string   `json:"name"`
	Cities []string `json:"cities,omitempty"`
}

// Routes mounts the state and city endpoints on r
func (h *StateHandler) Routes(r chi.Router) {
	r.Route("/states", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/", h.DeleteContaining)
		r.Get("/first", h.First)
		r.Get("/lookup", h.Lookup)
		r.Put("/{id}", h.Rename)
	})
	r.Get("/cities", h.Cities)
}

// List returns states. The first of the prefix, contains and name query
// parameters that is set filters the result; cities=true nests each
// state's cities.
func (h *StateHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()

	var (
		states []domain.State
		err    error
	)
	switch {
	case q.Get("prefix") != "":
		states, err = h.svc.ListByPrefix(ctx, q.Get("prefix"))
	case q.Get("contains") != "":
		states, err = h.svc.ListContaining(ctx, q.Get("contains"))
	case q.Get("name") != "":
		states, err = h.svc.Search(ctx, q.Get("name"))
	case q.Get("cities") == "true":
		states, err = h.svc.WithCities(ctx)
	default:
		states, err = h.svc.List(ctx)
	}
	if err != nil {
		writeServiceError(w, r, "Failed to list states", err, http.StatusInternalServerError)
		return
	}
	if states == nil {
		states = []domain.State{}
	}
	writeJSON(w, r, states, http.StatusOK)
}

// First returns the state with the lowest id
func (h *StateHandler) First(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.First(r.Context())
	if err != nil {
		writeServiceError(w, r, "Failed to get first state", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, state, http.StatusOK)
}

// Lookup returns the id of the state given by the name query parameter
func (h *StateHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, r, "Missing name", "name query parameter is required", http.StatusBadRequest)
		return
	}
	id, err := h.svc.IDByName(r.Context(), name)
	if err != nil {
		writeServiceError(w, r, "Failed to look up state", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, domain.State{ID: id, Name: name}, http.StatusOK)
}

// Create inserts a state, with its cities when the request lists any
func (h *StateHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeStateRequest(w, r)
	if !ok {
		return
	}

	var (
		state *domain.State
		err   error
	)
	if len(req.Cities) > 0 {
		state, err = h.svc.CreateWithCities(r.Context(), req.Name, req.Cities)
	} else {
		state, err = h.svc.Create(r.Context(), req.Name)
	}
	if err != nil {
		writeServiceError(w, r, "Failed to create state", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, state, http.StatusCreated)
}

// Rename changes the name of a state
func (h *StateHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, "Invalid state ID", "id must be an integer", http.StatusBadRequest)
		return
	}
	req, ok := decodeStateRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.Rename(r.Context(), id, req.Name); err != nil {
		writeServiceError(w, r, "Failed to rename state", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, domain.State{ID: id, Name: req.Name}, http.StatusOK)
}

// DeleteContaining removes every state whose name contains the contains
// query parameter
func (h *StateHandler) DeleteContaining(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.DeleteContaining(r.Context(), r.URL.Query().Get("contains"))
	if err != nil {
		writeServiceError(w, r, "Failed to delete states", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, map[string]int64{"deleted": n}, http.StatusOK)
}

// Cities lists every city, or only the city names of the state query
// parameter when it is set
func (h *StateHandler) Cities(w http.ResponseWriter, r *http.Request) {
	if state := r.URL.Query().Get("state"); state != "" {
		names, err := h.svc.CityNamesOf(r.Context(), state)
		if err != nil {
			writeServiceError(w, r, "Failed to list cities", err, http.StatusInternalServerError)
			return
		}
		if names == nil {
			names = []string{}
		}
		writeJSON(w, r, names, http.StatusOK)
		return
	}

	cities, err := h.svc.Cities(r.Context())
	if err != nil {
		writeServiceError(w, r, "Failed to list cities", err, http.StatusInternalServerError)
		return
	}
	if cities == nil {
		cities = []domain.City{}
	}
	writeJSON(w, r, cities, http.StatusOK)
}

func decodeStateRequest(w http.ResponseWriter, r *http.Request) (StateRequest, bool) {
	var req StateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}
