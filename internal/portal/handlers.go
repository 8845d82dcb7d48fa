package portal

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/api-portal/internal/registry"
	"github.com/ziadkadry99/api-portal/internal/selection"
)

// RegisterRoutes mounts the page, the state API and the catalog routes.
func (p *Portal) RegisterRoutes(r chi.Router, page *Page) {
	r.Get("/", page.ServeHTTP)
	r.Get("/api/state", p.handleState)
	r.Post("/api/location", p.handleLocation)
	r.Post("/api/domains/toggle", p.handleToggle)
	r.Post("/api/apis/load", p.handleLoadAPI)
	r.Get("/api/specs", p.handleSpec)
	r.Get("/ws/state", p.handleWebSocket)
	registry.RegisterRoutes(r, registry.RoutesDeps{Mutations: p})
}

type locationRequest struct {
	Location string `json:"location"`
	// Fragment is the page's current location.hash, with or without "#".
	Fragment string `json:"fragment,omitempty"`
}

type toggleRequest struct {
	Name     string `json:"name"`
	Fragment string `json:"fragment,omitempty"`
}

func (p *Portal) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, p.Snapshot(r.Context()))
}

func (p *Portal) handleLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	snap, err := p.Load(r.Context(), req.Location)
	writeSnapshot(w, snap, err)
}

func (p *Portal) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, p.ToggleDomain(r.Context(), req.Name, req.Fragment))
}

func (p *Portal) handleLoadAPI(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Location == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location is required"})
		return
	}
	snap, err := p.LoadAPI(r.Context(), req.Location, req.Fragment)
	writeSnapshot(w, snap, err)
}

func (p *Portal) handleSpec(w http.ResponseWriter, r *http.Request) {
	doc, err := p.Document(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (p *Portal) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p.hub.ServeWS(w, r, func() any { return p.Snapshot(ctx) })
}

// writeSnapshot answers with the snapshot even when the viewer step failed;
// selection and location are committed by then and the page shows Error.
func writeSnapshot(w http.ResponseWriter, snap Snapshot, err error) {
	if err != nil && !errors.Is(err, selection.ErrDocumentParse) {
		writeJSON(w, http.StatusBadGateway, snap)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
