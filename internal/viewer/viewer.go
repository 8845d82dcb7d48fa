// Package viewer is the boundary to the API documentation widget. The core
// only ever hands it a fetchable URL or an already parsed document.
package viewer

import "errors"

// Source is either a URL for the widget to fetch or an inline spec.
type Source struct {
	URL  string
	Spec any
}

// Inline reports whether the source carries a parsed document.
func (s Source) Inline() bool { return s.Spec != nil }

// Adapter is the contract the documentation widget is driven through.
type Adapter interface {
	Initialize(src Source) error
	UpdateByURL(url string) error
	UpdateBySpec(spec any) error
}

// ErrEmptySource is returned when neither a URL nor a spec is given.
var ErrEmptySource = errors.New("viewer: empty source")

// Driver initializes the adapter on first use and updates the same
// instance afterwards.
type Driver struct {
	adapter     Adapter
	initialized bool
}

// NewDriver wraps an adapter.
func NewDriver(a Adapter) *Driver {
	return &Driver{adapter: a}
}

// Initialized reports whether the adapter has been initialized.
func (d *Driver) Initialized() bool { return d.initialized }

// Show displays src, initializing the adapter if needed.
func (d *Driver) Show(src Source) error {
	if !src.Inline() && src.URL == "" {
		return ErrEmptySource
	}
	if !d.initialized {
		if err := d.adapter.Initialize(src); err != nil {
			return err
		}
		d.initialized = true
		return nil
	}
	if src.Inline() {
		return d.adapter.UpdateBySpec(src.Spec)
	}
	return d.adapter.UpdateByURL(src.URL)
}
