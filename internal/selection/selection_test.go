package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/viewer"
)

const (
	petstore = "https://petstore.swagger.io/v2/swagger.json?1"
	users    = "https://petstore.swagger.io/v2/swagger.json?2"
	payments = "https://petstore.swagger.io/v2/swagger.json?3"
)

func testCatalog() catalog.Catalog {
	cat := catalog.Builtin()
	return append(cat, catalog.Domain{Name: "Mine", APIs: []catalog.API{
		{Name: "Inline", Location: catalog.LocalIdentifier("Inline"), Local: true, Document: `{"a":1}`},
		{Name: "Broken", Location: catalog.LocalIdentifier("Broken"), Local: true, Document: `{"a":`},
		{Name: "Elsewhere", Location: "https://x/y"},
	}})
}

type fakeAdapter struct {
	inits  []viewer.Source
	urls   []string
	specs  []any
	failOn error
}

func (f *fakeAdapter) Initialize(src viewer.Source) error {
	if f.failOn != nil {
		return f.failOn
	}
	f.inits = append(f.inits, src)
	return nil
}

func (f *fakeAdapter) UpdateByURL(url string) error {
	f.urls = append(f.urls, url)
	return nil
}

func (f *fakeAdapter) UpdateBySpec(spec any) error {
	f.specs = append(f.specs, spec)
	return nil
}

func newMachine(t *testing.T, raw string) (*Machine, *MemoryPort, *fakeAdapter) {
	t.Helper()
	port := NewMemoryPort(ParseLocation(raw))
	adapter := &fakeAdapter{}
	return NewMachine(port, adapter, nil, nil), port, adapter
}

func TestQuery(t *testing.T) {
	q := ParseQuery("?a=1&domain=Core+Services&b=x%20y&empty=")
	assert.Equal(t, "Core Services", q.Get("domain"))
	assert.Equal(t, "x y", q.Get("b"))
	assert.False(t, q.Has("empty"))
	_, present := q.Lookup("empty")
	assert.True(t, present)

	q.Set("a", "2")
	q.Set("c", "new")
	q.Del("b")
	assert.Equal(t, "a=2&domain=Core%20Services&empty=&c=new", q.Encode())

	q = ParseQuery("k=1&k=2")
	q.Set("k", "3")
	assert.Equal(t, "k=3", q.Encode())
}

func TestParseLocation(t *testing.T) {
	loc := ParseLocation("http://localhost:8080/docs?url=a#/pet/addPet")
	assert.Equal(t, "/docs", loc.Path)
	assert.Equal(t, "a", loc.Query.Get(ParamURL))
	assert.Equal(t, "/pet/addPet", loc.Fragment)
	assert.Equal(t, "/docs?url=a#/pet/addPet", loc.String())

	assert.Equal(t, "/", ParseLocation("/").String())
	assert.Equal(t, "/", ParseLocation("https://example.com").Path)
}

func TestInitialize_DefaultSelection(t *testing.T) {
	m, port, adapter := newMachine(t, "/")
	require.NoError(t, m.Initialize(testCatalog()))

	st := m.State()
	assert.True(t, st.Ready)
	assert.Equal(t, "Core Services", st.SelectedDomain)
	assert.Equal(t, petstore, st.SelectedAPI)
	assert.Equal(t,
		"/?url=https%3A%2F%2Fpetstore.swagger.io%2Fv2%2Fswagger.json%3F1&domain=Core%20Services",
		port.Read().String())

	require.Len(t, adapter.inits, 1)
	assert.Equal(t, petstore, adapter.inits[0].URL)
}

func TestInitialize_EmptyCatalog(t *testing.T) {
	m, port, adapter := newMachine(t, "/")
	require.NoError(t, m.Initialize(nil))
	assert.Equal(t, State{Ready: true}, m.State())
	assert.Equal(t, "/", port.Read().String())
	assert.Empty(t, adapter.inits)
}

func TestInitialize_DomainWithoutAPIs(t *testing.T) {
	m, _, adapter := newMachine(t, "/")
	require.NoError(t, m.Initialize(catalog.Catalog{{Name: "Empty"}}))
	assert.Equal(t, "Empty", m.State().SelectedDomain)
	assert.Empty(t, m.State().SelectedAPI)
	assert.Empty(t, adapter.inits)
}

func TestInitialize_URLParam(t *testing.T) {
	m, port, _ := newMachine(t, "/?url="+payments+"#/pet")
	require.NoError(t, m.Initialize(testCatalog()))

	st := m.State()
	assert.Equal(t, payments, st.SelectedAPI)
	assert.Empty(t, st.SelectedDomain, "loading alone does not expand a domain")
	loc := port.Read()
	assert.Equal(t, "Payment Services", loc.Query.Get(ParamDomain))
	assert.Equal(t, "/pet", loc.Fragment)
}

func TestInitialize_URLAndDomainParams(t *testing.T) {
	m, _, _ := newMachine(t, "/?url="+payments+"&domain=Payment%20Services")
	require.NoError(t, m.Initialize(testCatalog()))
	assert.Equal(t, "Payment Services", m.State().SelectedDomain)
	assert.Equal(t, payments, m.State().SelectedAPI)
}

func TestInitialize_UnresolvedURL(t *testing.T) {
	m, port, adapter := newMachine(t, "/?url=https://nowhere/spec.json&domain=Core%20Services")
	require.NoError(t, m.Initialize(testCatalog()))

	assert.Empty(t, m.State().SelectedAPI)
	assert.Equal(t, "Core Services", m.State().SelectedDomain)
	assert.Equal(t, "https://nowhere/spec.json", port.Read().Query.Get(ParamURL), "location is left as is")
	assert.Empty(t, adapter.inits)
}

func TestInitialize_LocalAPIParam(t *testing.T) {
	m, port, adapter := newMachine(t, "/?localApi=Inline")
	require.NoError(t, m.Initialize(testCatalog()))

	assert.Equal(t, "local-api-SW5saW5l", m.State().SelectedAPI)
	q := port.Read().Query
	assert.Equal(t, "Inline", q.Get(ParamLocalAPI))
	assert.False(t, q.Has(ParamURL))
	assert.Equal(t, "Mine", q.Get(ParamDomain))
	require.Len(t, adapter.inits, 1)
	assert.Equal(t, map[string]any{"a": 1.0}, adapter.inits[0].Spec)
}

func TestInitialize_LocalAPIMiss(t *testing.T) {
	m, _, adapter := newMachine(t, "/?localApi=Elsewhere")
	require.NoError(t, m.Initialize(testCatalog()))
	assert.Empty(t, m.State().SelectedAPI, "remote entries never match localApi")
	assert.Empty(t, adapter.inits)
}

func TestInitialize_DefaultWithDomainParamToggles(t *testing.T) {
	m, _, _ := newMachine(t, "/?domain=Core%20Services")
	require.NoError(t, m.Initialize(testCatalog()))
	// The default expands the first domain, the parameter then toggles it.
	assert.Empty(t, m.State().SelectedDomain)

	m, _, _ = newMachine(t, "/?domain=Payment%20Services")
	require.NoError(t, m.Initialize(testCatalog()))
	assert.Equal(t, "Payment Services", m.State().SelectedDomain)
}

func TestInitialize_StableAfterRewrite(t *testing.T) {
	m, port, _ := newMachine(t, "/")
	require.NoError(t, m.Initialize(testCatalog()))
	first := port.Read().String()

	again, port2, _ := newMachine(t, first)
	require.NoError(t, again.Initialize(testCatalog()))
	assert.Equal(t, first, port2.Read().String())
	assert.Equal(t, m.State(), again.State())
}

func TestLoadAPI_LocalThenRemote(t *testing.T) {
	m, port, adapter := newMachine(t, "/?url="+petstore+"#/store")
	require.NoError(t, m.Initialize(testCatalog()))

	require.NoError(t, m.LoadAPI(testCatalog(), "local-api-SW5saW5l"))
	loc := port.Read()
	assert.Equal(t, "Inline", loc.Query.Get(ParamLocalAPI))
	assert.False(t, loc.Query.Has(ParamURL))
	assert.Equal(t, "Mine", loc.Query.Get(ParamDomain))
	assert.Equal(t, "/store", loc.Fragment)
	require.Len(t, adapter.specs, 1, "second load updates the existing viewer")
	assert.Equal(t, map[string]any{"a": 1.0}, adapter.specs[0])

	require.NoError(t, m.LoadAPI(testCatalog(), users))
	loc = port.Read()
	assert.Equal(t, users, loc.Query.Get(ParamURL))
	assert.False(t, loc.Query.Has(ParamLocalAPI))
	assert.Equal(t, "Core Services", loc.Query.Get(ParamDomain))
	assert.Equal(t, []string{users}, adapter.urls)
	assert.Len(t, adapter.inits, 1)
}

func TestLoadAPI_UnknownLocationKeepsDomainParam(t *testing.T) {
	m, port, adapter := newMachine(t, "/?domain=Mine")
	require.NoError(t, m.LoadAPI(testCatalog(), "https://unknown/spec"))

	assert.Equal(t, "https://unknown/spec", m.State().SelectedAPI)
	assert.Equal(t, "Mine", port.Read().Query.Get(ParamDomain))
	require.Len(t, adapter.inits, 1)
	assert.Equal(t, "https://unknown/spec", adapter.inits[0].URL)
}

func TestLoadAPI_BrokenDocument(t *testing.T) {
	m, port, adapter := newMachine(t, "/")
	err := m.LoadAPI(testCatalog(), catalog.LocalIdentifier("Broken"))

	require.ErrorIs(t, err, ErrDocumentParse)
	assert.Equal(t, catalog.LocalIdentifier("Broken"), m.State().SelectedAPI)
	assert.Equal(t, "Broken", port.Read().Query.Get(ParamLocalAPI))
	assert.Empty(t, adapter.inits)
}

func TestLoadAPI_ViewerFailure(t *testing.T) {
	port := NewMemoryPort(ParseLocation("/"))
	adapter := &fakeAdapter{failOn: errors.New("widget gone")}
	m := NewMachine(port, adapter, nil, nil)

	err := m.LoadAPI(testCatalog(), petstore)
	require.Error(t, err)
	assert.Equal(t, petstore, m.State().SelectedAPI)
}

func TestLoadAPI_IsPure(t *testing.T) {
	loc := ParseLocation("/?x=1")
	before := loc.String()
	s := State{Ready: true}
	tr := LoadAPI(testCatalog(), s, loc, petstore)

	assert.Equal(t, before, loc.String())
	assert.Equal(t, State{Ready: true}, s)
	assert.Equal(t, "x=1&url=https%3A%2F%2Fpetstore.swagger.io%2Fv2%2Fswagger.json%3F1&domain=Core%20Services", tr.Location.Query.Encode())
}

func TestSelectDomain_Toggle(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		x := rapid.StringMatching(`[A-Z][a-z]{1,6}`).Draw(rt, "x")
		y := rapid.StringMatching(`[A-Z][a-z]{1,6}`).Filter(func(s string) bool { return s != x }).Draw(rt, "y")
		start := State{SelectedDomain: rapid.SampledFrom([]string{"", x, y, "Other"}).Draw(rt, "start")}

		once := SelectDomain(start, x)
		require.Equal(rt, x != start.SelectedDomain, once.SelectedDomain == x)

		if start.SelectedDomain != x {
			require.Equal(rt, "", SelectDomain(once, x).SelectedDomain, "toggling twice collapses")
		}
		require.Equal(rt, y, SelectDomain(State{SelectedDomain: x}, y).SelectedDomain, "only one domain expanded")
	})
}

func TestMachine_Subscribe(t *testing.T) {
	m, _, _ := newMachine(t, "/")
	var states []State
	m.Subscribe(func(s State) { states = append(states, s) })

	m.SelectDomain("Mine")
	m.SelectDomain("Mine")
	require.Len(t, states, 2)
	assert.Equal(t, "Mine", states[0].SelectedDomain)
	assert.Empty(t, states[1].SelectedDomain)
}

func TestReconcile(t *testing.T) {
	m, _, _ := newMachine(t, "/")
	require.NoError(t, m.LoadAPI(testCatalog(), "https://x/y"))

	m.Reconcile(testCatalog())
	assert.Equal(t, "https://x/y", m.State().SelectedAPI)

	m.Reconcile(catalog.Builtin())
	assert.Empty(t, m.State().SelectedAPI)
}
