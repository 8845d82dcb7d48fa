package selection

import (
	"net/url"
	"strings"
)

// Query parameter names that make up the addressable location.
const (
	ParamURL      = "url"
	ParamLocalAPI = "localApi"
	ParamDomain   = "domain"
)

type param struct {
	key   string
	value string
}

// Query is an ordered set of query parameters. Unlike url.Values it keeps
// insertion order, so rewriting one parameter leaves the others where they
// were.
type Query struct {
	params []param
}

// ParseQuery parses a raw query string, with or without the leading "?".
// Malformed escapes are kept verbatim.
func ParseQuery(raw string) Query {
	raw = strings.TrimPrefix(raw, "?")
	var q Query
	if raw == "" {
		return q
	}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		q.params = append(q.params, param{key: unescape(key), value: unescape(value)})
	}
	return q
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Get returns the first value for key.
func (q Query) Get(key string) string {
	v, _ := q.Lookup(key)
	return v
}

// Lookup returns the first value for key and whether it is present.
func (q Query) Lookup(key string) (string, bool) {
	for _, p := range q.params {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Has reports whether key is present with a non-empty value.
func (q Query) Has(key string) bool {
	return q.Get(key) != ""
}

// Set replaces the first occurrence of key in place and drops any others,
// or appends the pair when key is absent.
func (q *Query) Set(key, value string) {
	out := q.params[:0:0]
	replaced := false
	for _, p := range q.params {
		if p.key != key {
			out = append(out, p)
			continue
		}
		if !replaced {
			out = append(out, param{key: key, value: value})
			replaced = true
		}
	}
	if !replaced {
		out = append(out, param{key: key, value: value})
	}
	q.params = out
}

// Del removes every occurrence of key.
func (q *Query) Del(key string) {
	out := q.params[:0:0]
	for _, p := range q.params {
		if p.key != key {
			out = append(out, p)
		}
	}
	q.params = out
}

// Len returns the number of parameters.
func (q Query) Len() int { return len(q.params) }

// Encode renders the query without the leading "?". Spaces are encoded as
// %20.
func (q Query) Encode() string {
	parts := make([]string, len(q.params))
	for i, p := range q.params {
		parts[i] = escape(p.key) + "=" + escape(p.value)
	}
	return strings.Join(parts, "&")
}

// Clone returns an independent copy.
func (q Query) Clone() Query {
	return Query{params: append([]param(nil), q.params...)}
}

// Location is the page's addressable location: path, query and fragment.
type Location struct {
	Path     string
	Query    Query
	Fragment string
}

// ParseLocation splits a path-relative or absolute URL into a Location.
// Scheme and host, if any, are dropped.
func ParseLocation(raw string) Location {
	rest, fragment, _ := strings.Cut(raw, "#")
	path, query, _ := strings.Cut(rest, "?")
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		if j := strings.IndexByte(path, '/'); j >= 0 {
			path = path[j:]
		} else {
			path = "/"
		}
	}
	return Location{Path: path, Query: ParseQuery(query), Fragment: fragment}
}

// String renders path, "?query" when non-empty and "#fragment" when
// non-empty.
func (l Location) String() string {
	var sb strings.Builder
	sb.WriteString(l.Path)
	if l.Query.Len() > 0 {
		sb.WriteByte('?')
		sb.WriteString(l.Query.Encode())
	}
	if l.Fragment != "" {
		sb.WriteByte('#')
		sb.WriteString(l.Fragment)
	}
	return sb.String()
}

// Clone returns an independent copy.
func (l Location) Clone() Location {
	return Location{Path: l.Path, Query: l.Query.Clone(), Fragment: l.Fragment}
}

// LocationPort reads and rewrites the addressable location.
type LocationPort interface {
	Read() Location
	Write(Location)
}

// MemoryPort is a LocationPort held in memory.
type MemoryPort struct {
	loc Location
}

// NewMemoryPort creates a port starting at loc.
func NewMemoryPort(loc Location) *MemoryPort {
	return &MemoryPort{loc: loc.Clone()}
}

// Read implements LocationPort.
func (p *MemoryPort) Read() Location { return p.loc.Clone() }

// Write implements LocationPort.
func (p *MemoryPort) Write(loc Location) { p.loc = loc.Clone() }
