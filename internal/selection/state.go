// Package selection decides which domain is expanded and which API is
// active, and keeps that choice in sync with the addressable location.
//
// The transitions are pure functions over State; Machine wraps them with a
// LocationPort and a viewer Driver for the UI layer.
package selection

import (
	"github.com/ziadkadry99/api-portal/internal/catalog"
)

// State is the current selection. Empty strings mean "none".
type State struct {
	Ready          bool   `json:"ready"`
	SelectedDomain string `json:"selected_domain,omitempty"`
	SelectedAPI    string `json:"selected_api,omitempty"`
}

// Target is what the viewer should display after a load.
type Target struct {
	Location string
	Name     string
	Domain   string
	Origin   catalog.Origin
	// Document is the raw text of a local API; empty for remote ones.
	Document string
}

// Local reports whether the target is an inline document.
func (t Target) Local() bool { return t.Origin == catalog.OriginLocal }

// Transition is the result of a transition that may rewrite the location
// and drive the viewer. Target is nil when nothing is to be shown.
type Transition struct {
	State    State
	Location Location
	Target   *Target
}

// SelectDomain toggles expansion: the expanded domain collapses, any other
// domain replaces it.
func SelectDomain(s State, name string) State {
	if s.SelectedDomain == name {
		s.SelectedDomain = ""
	} else {
		s.SelectedDomain = name
	}
	return s
}

// LoadAPI selects the API at location and rewrites the query parameters.
// The fragment is carried over untouched.
func LoadAPI(cat catalog.Catalog, s State, loc Location, location string) Transition {
	loc = loc.Clone()
	api, owner, found := cat.FindByLocation(location)

	s.SelectedAPI = location

	target := &Target{Location: location, Origin: catalog.OriginRemote}
	if found {
		target.Name = api.Name
		target.Domain = owner
		target.Origin = api.Origin()
		if api.IsLocal() {
			target.Document = api.Document
		}
	}

	if target.Local() {
		loc.Query.Set(ParamLocalAPI, api.Name)
		loc.Query.Del(ParamURL)
	} else {
		loc.Query.Set(ParamURL, location)
		loc.Query.Del(ParamLocalAPI)
	}
	if found {
		loc.Query.Set(ParamDomain, owner)
	}

	return Transition{State: s, Location: loc, Target: target}
}

// Miss describes a location parameter that matched nothing in the catalog.
type Miss struct {
	Param string
	Value string
}

// Initialize computes the first selection from the catalog and the
// location the page was opened with.
func Initialize(cat catalog.Catalog, loc Location) (Transition, *Miss) {
	apiURL := loc.Query.Get(ParamURL)
	localName := loc.Query.Get(ParamLocalAPI)
	domain := loc.Query.Get(ParamDomain)

	tr := Transition{State: State{Ready: true}, Location: loc.Clone()}
	var miss *Miss

	switch {
	case apiURL == "" && localName == "":
		if len(cat) > 0 {
			first := cat[0]
			tr.State.SelectedDomain = first.Name
			if len(first.APIs) > 0 {
				tr = LoadAPI(cat, tr.State, tr.Location, first.APIs[0].Location)
			}
		}
	case apiURL != "":
		if cat.Contains(apiURL) {
			tr = LoadAPI(cat, tr.State, tr.Location, apiURL)
		} else {
			miss = &Miss{Param: ParamURL, Value: apiURL}
		}
	default:
		if api, ok := cat.FindLocalByName(localName); ok {
			tr = LoadAPI(cat, tr.State, tr.Location, api.Location)
		} else {
			miss = &Miss{Param: ParamLocalAPI, Value: localName}
		}
	}

	if domain != "" {
		tr.State = SelectDomain(tr.State, domain)
	}
	return tr, miss
}

// Reconcile clears the selected API when the catalog no longer holds it.
func Reconcile(cat catalog.Catalog, s State) State {
	if s.SelectedAPI != "" && !cat.Contains(s.SelectedAPI) {
		s.SelectedAPI = ""
	}
	return s
}
