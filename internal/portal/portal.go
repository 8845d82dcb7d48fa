// Package portal is the UI layer of the API portal. It owns the selection
// for the single page being served, serializes every user action and
// pushes the resulting state to the browser.
package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/metrics"
	"github.com/ziadkadry99/api-portal/internal/registry"
	"github.com/ziadkadry99/api-portal/internal/selection"
	"github.com/ziadkadry99/api-portal/internal/viewer"
)

// Site is the branding shown by the page.
type Site struct {
	Name           string `json:"name"`
	SupportURL     string `json:"support_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Description    string `json:"description,omitempty"`
}

// DomainView is a catalog domain as the page renders it.
type DomainView struct {
	catalog.Domain
	Custom bool `json:"isCustomDomain"`
}

// Snapshot is everything the page needs to render itself.
type Snapshot struct {
	Site      Site            `json:"site"`
	Domains   []DomainView    `json:"domains"`
	Selection selection.State `json:"selection"`
	Location  string          `json:"location"`
	Viewer    *viewer.Command `json:"viewer,omitempty"`
	Options   viewer.Options  `json:"options"`
	Error     string          `json:"error,omitempty"`
}

// Portal serializes actions on the catalog and the selection. Each action
// runs to completion, store writes included, before the next one starts.
type Portal struct {
	mu      sync.Mutex
	site    Site
	builder *catalog.Builder
	mutator *registry.Mutator
	bridge  *viewer.Bridge
	port    *selection.MemoryPort
	machine *selection.Machine
	hub     *Hub
	logger  *zap.Logger
	metrics *metrics.Metrics

	// changed is set by the machine and bridge listeners while an action
	// runs; guarded by mu.
	changed bool
}

// New creates a Portal. Nothing is selected until Load is called.
func New(site Site, builder *catalog.Builder, mutator *registry.Mutator, logger *zap.Logger, m *metrics.Metrics) *Portal {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Portal{
		site:    site,
		builder: builder,
		mutator: mutator,
		bridge:  viewer.NewBridge(),
		port:    selection.NewMemoryPort(selection.ParseLocation("/")),
		hub:     NewHub(logger),
		logger:  logger,
		metrics: m,
	}
	p.bridge.OnCommand(p.onCommand)
	p.machine = p.newMachine()
	return p
}

func (p *Portal) newMachine() *selection.Machine {
	m := selection.NewMachine(p.port, p.bridge, p.logger, p.metrics)
	m.Subscribe(p.onState)
	return m
}

// onState and onCommand run inside an action, with mu held.
func (p *Portal) onState(s selection.State) {
	p.changed = true
	p.logger.Debug("selection changed",
		zap.String("domain", s.SelectedDomain), zap.String("api", s.SelectedAPI))
}

func (p *Portal) onCommand(cmd viewer.Command) {
	p.changed = true
	p.logger.Debug("viewer command",
		zap.String("kind", cmd.Kind), zap.Uint64("revision", cmd.Revision))
}

// follow adopts the fragment the page currently shows. Deep linking in the
// viewer rewrites it without telling the server.
func (p *Portal) follow(fragment string) {
	loc := p.port.Read()
	loc.Fragment = strings.TrimPrefix(fragment, "#")
	p.port.Write(loc)
}

// Hub returns the websocket hub snapshots are broadcast on.
func (p *Portal) Hub() *Hub { return p.hub }

// Load handles a page load at the given location. A fresh page gets a
// fresh viewer, so the selection machine starts over.
func (p *Portal) Load(ctx context.Context, location string) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.port.Write(selection.ParseLocation(location))
	p.bridge.Reset()
	p.machine = p.newMachine()
	err := p.machine.Initialize(p.builder.Build(ctx))
	return p.publish(ctx, err)
}

// ToggleDomain expands name, or collapses it when already expanded.
// fragment is the page's current fragment and is kept in the location.
func (p *Portal) ToggleDomain(ctx context.Context, name, fragment string) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.follow(fragment)
	p.machine.SelectDomain(name)
	snap, _ := p.publish(ctx, nil)
	return snap
}

// LoadAPI shows the API at location. fragment is the page's current
// fragment and is carried over into the rewritten location.
func (p *Portal) LoadAPI(ctx context.Context, location, fragment string) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.follow(fragment)
	err := p.machine.LoadAPI(p.builder.Build(ctx), location)
	return p.publish(ctx, err)
}

// Catalog implements registry.Mutations.
func (p *Portal) Catalog(ctx context.Context) catalog.Catalog {
	return p.builder.Build(ctx)
}

// Add implements registry.Mutations.
func (p *Portal) Add(ctx context.Context, req registry.AddRequest) (catalog.Catalog, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cat, err := p.mutator.Add(ctx, req)
	if err != nil {
		return nil, err
	}
	p.changed = true
	p.publish(ctx, nil)
	return cat, nil
}

// Remove implements registry.Mutations. A selection pointing at the
// removed API is cleared.
func (p *Portal) Remove(ctx context.Context, domainName, apiName string, confirm registry.Confirmer) (catalog.Catalog, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cat, removed, err := p.mutator.Remove(ctx, domainName, apiName, confirm)
	if err != nil || !removed {
		return cat, removed, err
	}
	p.changed = true
	p.machine.Reconcile(cat)
	p.publish(ctx, nil)
	return cat, true, nil
}

// Document returns the parsed document of the local API at location.
func (p *Portal) Document(ctx context.Context, location string) (any, error) {
	if !catalog.IsLocalIdentifier(location) {
		return nil, fmt.Errorf("%q is not a local document", location)
	}
	api, _, ok := p.builder.Build(ctx).FindByLocation(location)
	if !ok {
		return nil, fmt.Errorf("no api at %q", location)
	}
	if !api.IsLocal() {
		return nil, fmt.Errorf("api %q is not a local document", api.Name)
	}
	return catalog.ParseDocument(api.Document)
}

// Snapshot returns the current state without changing it.
func (p *Portal) Snapshot(ctx context.Context) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot(ctx, nil)
}

// publish builds a snapshot and passes err through. The snapshot is
// broadcast only when a listener saw a change or the action failed.
func (p *Portal) publish(ctx context.Context, err error) (Snapshot, error) {
	snap := p.snapshot(ctx, err)
	if p.changed || err != nil {
		p.hub.Broadcast(snap)
	}
	p.changed = false
	return snap, err
}

func (p *Portal) snapshot(ctx context.Context, err error) Snapshot {
	cat := p.builder.Build(ctx)
	builtin := len(p.builder.Builtin())

	domains := make([]DomainView, len(cat))
	for i, d := range cat {
		domains[i] = DomainView{Domain: d, Custom: i >= builtin}
	}

	snap := Snapshot{
		Site:      p.site,
		Domains:   domains,
		Selection: p.machine.State(),
		Location:  p.port.Read().String(),
		Options:   viewer.DefaultOptions(),
	}
	if cmd, ok := p.bridge.Current(); ok {
		snap.Viewer = &cmd
	}
	if err != nil {
		snap.Error = userMessage(err)
	}
	return snap
}

func userMessage(err error) string {
	if errors.Is(err, selection.ErrDocumentParse) {
		return "The stored document for this API could not be parsed."
	}
	return err.Error()
}
