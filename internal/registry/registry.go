package registry

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/metrics"
)

// Mode says how the payload of an AddRequest is interpreted.
type Mode string

const (
	ModeURL      Mode = "url"
	ModeDocument Mode = "document"
)

// AddRequest describes a new user-defined API entry.
type AddRequest struct {
	DomainName string `json:"domain_name"`
	APIName    string `json:"api_name"`
	Mode       Mode   `json:"mode"`
	URL        string `json:"url,omitempty"`
	Document   string `json:"document,omitempty"`
}

// Storage is the persistent store the mutator reads and writes.
type Storage interface {
	Read(ctx context.Context) []catalog.Domain
	Write(ctx context.Context, domains []catalog.Domain)
	Has(ctx context.Context, domainName string) bool
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed approves every prompt.
var Confirmed Confirmer = ConfirmFunc(func(string) bool { return true })

// RemovePrompt is the question shown before removing an entry.
const RemovePrompt = "Are you sure you want to remove this API?"

// Mutator validates and applies changes to the user-defined catalog. Every
// successful change persists the whole user catalog and returns a freshly
// built catalog.
type Mutator struct {
	storage Storage
	builder *catalog.Builder
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewMutator creates a Mutator.
func NewMutator(storage Storage, builder *catalog.Builder, logger *zap.Logger, m *metrics.Metrics) *Mutator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mutator{storage: storage, builder: builder, logger: logger, metrics: m}
}

// Add appends a new API to a user domain, creating the domain if needed.
// Rejections are *ValidationError and leave the store unchanged.
func (m *Mutator) Add(ctx context.Context, req AddRequest) (catalog.Catalog, error) {
	api, err := m.add(ctx, req)
	if err != nil {
		m.metrics.RegistryMutation("add", "rejected")
		return nil, err
	}
	m.metrics.RegistryMutation("add", "ok")
	m.logger.Info("api added",
		zap.String("domain", domainOrDefault(req.DomainName)),
		zap.String("api", api.Name),
		zap.String("origin", string(api.Origin())))
	return m.builder.Build(ctx), nil
}

func (m *Mutator) add(ctx context.Context, req AddRequest) (catalog.API, error) {
	if req.APIName == "" {
		return catalog.API{}, newValidationError(ReasonMissingName, "Please fill in the API name")
	}

	api := catalog.API{Name: req.APIName}
	switch req.Mode {
	case ModeURL, "":
		if req.URL == "" {
			return catalog.API{}, newValidationError(ReasonMissingURL, "Please provide a valid URL")
		}
		api.Location = req.URL
	case ModeDocument:
		if strings.TrimSpace(req.Document) == "" {
			return catalog.API{}, newValidationError(ReasonMissingDocument, "Please paste the JSON content")
		}
		if _, err := catalog.ParseDocument(req.Document); err != nil {
			return catalog.API{}, newValidationError(ReasonInvalidDocument, "Invalid JSON format. Please check your JSON syntax.")
		}
		api.Location = m.builder.Scheme().Derive(req.APIName)
		api.Local = true
		api.Document = req.Document
	default:
		return catalog.API{}, newValidationError(ReasonUnknownMode, fmt.Sprintf("Unknown input mode %q", req.Mode))
	}

	domains := m.storage.Read(ctx)
	target := domainOrDefault(req.DomainName)

	idx := -1
	for i, d := range domains {
		if d.Name == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		domains = append(domains, catalog.Domain{Name: target, APIs: []catalog.API{}})
		idx = len(domains) - 1
	}

	if _, exists := domains[idx].API(api.Name); exists {
		return catalog.API{}, newValidationError(ReasonDuplicate, "An API with this name already exists in the domain")
	}
	if api.IsLocal() {
		if other, ok := m.collision(domains, api); ok {
			return catalog.API{}, newValidationError(ReasonCollision,
				fmt.Sprintf("The name %q maps to the same identifier as the existing API %q; choose another name", api.Name, other))
		}
	}

	domains[idx].APIs = append(domains[idx].APIs, api)
	m.storage.Write(ctx, domains)
	return api, nil
}

// collision finds a stored local API with a different name deriving the
// same identifier.
func (m *Mutator) collision(domains []catalog.Domain, api catalog.API) (string, bool) {
	scheme := m.builder.Scheme()
	for _, d := range domains {
		for _, a := range d.APIs {
			if a.IsLocal() && a.Name != api.Name && scheme.Derive(a.Name) == api.Location {
				return a.Name, true
			}
		}
	}
	return "", false
}

// Remove deletes an API from a user domain once confirmed, deleting the
// domain when it becomes empty. It reports whether anything was removed.
// Built-in domains are never touched.
func (m *Mutator) Remove(ctx context.Context, domainName, apiName string, confirm Confirmer) (catalog.Catalog, bool, error) {
	if confirm == nil || !confirm.Confirm(RemovePrompt) {
		m.metrics.RegistryMutation("remove", "declined")
		return m.builder.Build(ctx), false, nil
	}

	domains := m.storage.Read(ctx)
	idx := -1
	for i, d := range domains {
		if d.Name == domainName {
			idx = i
			break
		}
	}
	if idx == -1 {
		m.metrics.RegistryMutation("remove", "noop")
		return m.builder.Build(ctx), false, nil
	}

	before := len(domains[idx].APIs)
	kept := make([]catalog.API, 0, before)
	for _, a := range domains[idx].APIs {
		if a.Name != apiName {
			kept = append(kept, a)
		}
	}
	removed := len(kept) != before

	if len(kept) == 0 {
		domains = append(domains[:idx], domains[idx+1:]...)
	} else {
		domains[idx].APIs = kept
	}

	m.storage.Write(ctx, domains)
	if removed {
		m.metrics.RegistryMutation("remove", "ok")
		m.logger.Info("api removed", zap.String("domain", domainName), zap.String("api", apiName))
	} else {
		m.metrics.RegistryMutation("remove", "noop")
	}
	return m.builder.Build(ctx), removed, nil
}

// IsCustomDomain reports whether the domain lives in the user catalog and
// can therefore be edited.
func (m *Mutator) IsCustomDomain(ctx context.Context, name string) bool {
	return m.storage.Has(ctx, name)
}

func domainOrDefault(name string) string {
	if name == "" {
		return catalog.DefaultDomainName
	}
	return name
}
