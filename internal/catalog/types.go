package catalog

// DefaultDomainName is the bucket for user entries added without a domain.
const DefaultDomainName = "Custom APIs"

// Origin tells how an API entry is resolved by the viewer.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// API is one selectable specification entry. The JSON tags match the
// layout persisted by the store.
type API struct {
	Name     string `json:"name" yaml:"name"`
	Location string `json:"url" yaml:"url"`
	Local    bool   `json:"isLocal,omitempty" yaml:"isLocal,omitempty"`
	Document string `json:"jsonContent,omitempty" yaml:"jsonContent,omitempty"`
}

// Origin returns OriginLocal only when the entry carries an inline document.
func (a API) Origin() Origin {
	if a.Local && a.Document != "" {
		return OriginLocal
	}
	return OriginRemote
}

// IsLocal reports whether the entry is a pasted document.
func (a API) IsLocal() bool { return a.Origin() == OriginLocal }

// Domain is a named, ordered group of APIs.
type Domain struct {
	Name string `json:"name" yaml:"name"`
	APIs []API  `json:"apis" yaml:"apis"`
}

// API returns the entry with the given name, if any.
func (d Domain) API(name string) (API, bool) {
	for _, a := range d.APIs {
		if a.Name == name {
			return a, true
		}
	}
	return API{}, false
}

// Catalog is the ordered list of visible domains: built-in first, then
// user-defined.
type Catalog []Domain

// Domain returns the first domain with the given name.
func (c Catalog) Domain(name string) (Domain, bool) {
	for _, d := range c {
		if d.Name == name {
			return d, true
		}
	}
	return Domain{}, false
}

// FindByLocation returns the first API whose location matches, scanning
// domains in catalog order, along with the name of its owning domain.
func (c Catalog) FindByLocation(location string) (API, string, bool) {
	for _, d := range c {
		for _, a := range d.APIs {
			if a.Location == location {
				return a, d.Name, true
			}
		}
	}
	return API{}, "", false
}

// FindLocalByName returns the first local API with the given name.
func (c Catalog) FindLocalByName(name string) (API, bool) {
	for _, d := range c {
		for _, a := range d.APIs {
			if a.IsLocal() && a.Name == name {
				return a, true
			}
		}
	}
	return API{}, false
}

// Contains reports whether any API in the catalog has the given location.
func (c Catalog) Contains(location string) bool {
	_, _, ok := c.FindByLocation(location)
	return ok
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (c Catalog) Clone() Catalog {
	return Catalog(cloneDomains(c))
}

func cloneDomains(domains []Domain) []Domain {
	if domains == nil {
		return nil
	}
	out := make([]Domain, len(domains))
	for i, d := range domains {
		out[i] = Domain{Name: d.Name, APIs: append([]API(nil), d.APIs...)}
	}
	return out
}
