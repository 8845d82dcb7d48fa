package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/api-portal/internal/catalog"
)

// Mutations is what the routes need. *Mutator implements it; the portal
// wraps it to serialize changes with the selection.
type Mutations interface {
	Catalog(ctx context.Context) catalog.Catalog
	Add(ctx context.Context, req AddRequest) (catalog.Catalog, error)
	Remove(ctx context.Context, domainName, apiName string, confirm Confirmer) (catalog.Catalog, bool, error)
}

// Catalog returns the current built catalog.
func (m *Mutator) Catalog(ctx context.Context) catalog.Catalog {
	return m.builder.Build(ctx)
}

// RoutesDeps holds the dependencies needed to register catalog routes.
type RoutesDeps struct {
	Mutations Mutations
}

// RegisterRoutes wires up the catalog management REST endpoints.
func RegisterRoutes(r chi.Router, deps RoutesDeps) {
	h := &routeHandler{deps: deps}
	r.Get("/api/domains", h.listDomains)
	r.Post("/api/apis", h.addAPI)
	r.Delete("/api/domains/{domain}/apis/{api}", h.removeAPI)
}

type routeHandler struct {
	deps RoutesDeps
}

func (h *routeHandler) listDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"domains": h.deps.Mutations.Catalog(r.Context())})
}

func (h *routeHandler) addAPI(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	cat, err := h.deps.Mutations.Add(r.Context(), req)
	if err != nil {
		if ve, ok := IsValidation(err); ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message, "reason": string(ve.Reason)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"domains": cat})
}

func (h *routeHandler) removeAPI(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusPreconditionRequired, map[string]string{"error": RemovePrompt})
		return
	}

	domain, err := pathParam(r, "domain")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	api, err := pathParam(r, "api")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cat, removed, err := h.deps.Mutations.Remove(r.Context(), domain, api, Confirmed)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed, "domains": cat})
}

// pathParam returns a decoded URL parameter. chi matches on RawPath when the
// request has one (a name with an escaped "/"), leaving params escaped.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
