package selection

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/metrics"
	"github.com/ziadkadry99/api-portal/internal/viewer"
)

// ErrDocumentParse is returned when a stored local document can no longer
// be parsed at load time. Selection and location are already updated.
var ErrDocumentParse = errors.New("local document does not parse")

// Machine holds the selection for one page and applies transitions to it.
// It is not safe for concurrent use; the UI layer serializes calls.
type Machine struct {
	state   State
	port    LocationPort
	driver  *viewer.Driver
	logger  *zap.Logger
	metrics *metrics.Metrics
	subs    []func(State)
}

// NewMachine creates an uninitialized Machine.
func NewMachine(port LocationPort, adapter viewer.Adapter, logger *zap.Logger, m *metrics.Metrics) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		port:    port,
		driver:  viewer.NewDriver(adapter),
		logger:  logger,
		metrics: m,
	}
}

// State returns the current selection.
func (m *Machine) State() State { return m.state }

// Location returns the current addressable location.
func (m *Machine) Location() Location { return m.port.Read() }

// Subscribe registers fn to be called after every state change.
func (m *Machine) Subscribe(fn func(State)) {
	m.subs = append(m.subs, fn)
}

// Initialize picks the first selection from the port's location. A
// location parameter that resolves to nothing leaves the selection empty
// and is not an error.
func (m *Machine) Initialize(cat catalog.Catalog) error {
	tr, miss := Initialize(cat, m.port.Read())
	if miss != nil {
		m.logger.Info("requested api not found in catalog",
			zap.String("param", miss.Param), zap.String("value", miss.Value))
	}
	return m.apply(tr)
}

// SelectDomain toggles the expanded domain.
func (m *Machine) SelectDomain(name string) {
	m.setState(SelectDomain(m.state, name))
}

// LoadAPI selects the API at location, rewrites the location and drives
// the viewer.
func (m *Machine) LoadAPI(cat catalog.Catalog, location string) error {
	tr := LoadAPI(cat, m.state, m.port.Read(), location)
	tr.State.Ready = true
	return m.apply(tr)
}

// Reconcile drops a selected API that no longer exists in cat.
func (m *Machine) Reconcile(cat catalog.Catalog) {
	next := Reconcile(cat, m.state)
	if next != m.state {
		m.logger.Debug("selected api removed from catalog", zap.String("location", m.state.SelectedAPI))
		m.setState(next)
	}
}

func (m *Machine) apply(tr Transition) error {
	m.port.Write(tr.Location)
	m.setState(tr.State)
	if tr.Target == nil {
		return nil
	}
	return m.show(*tr.Target)
}

func (m *Machine) show(t Target) error {
	src := viewer.Source{URL: t.Location}
	if t.Local() {
		spec, err := catalog.ParseDocument(t.Document)
		if err != nil {
			m.logger.Warn("cannot display local api", zap.String("api", t.Name), zap.Error(err))
			return fmt.Errorf("%w: %s: %v", ErrDocumentParse, t.Name, err)
		}
		src = viewer.Source{Spec: spec}
	}
	first := !m.driver.Initialized()
	if err := m.driver.Show(src); err != nil {
		m.logger.Warn("viewer update failed", zap.String("location", t.Location), zap.Error(err))
		return fmt.Errorf("driving viewer: %w", err)
	}
	if first {
		m.logger.Debug("viewer initialized", zap.String("location", t.Location))
	}
	m.metrics.APILoad(string(t.Origin))
	return nil
}

func (m *Machine) setState(s State) {
	m.state = s
	for _, fn := range m.subs {
		fn(s)
	}
}
