package catalog

import (
	"encoding/base64"
	"strings"
)

// LocalPrefix starts every identifier derived for a pasted document.
const LocalPrefix = "local-api-"

// IdentifierScheme derives the location handle of a local API from its
// name. Implementations must be deterministic; callers compare derived
// values and never decode them.
type IdentifierScheme interface {
	Derive(name string) string
}

// Base64Scheme encodes the name as standard base64 and strips every
// character outside [A-Za-z0-9].
type Base64Scheme struct{}

// Derive implements IdentifierScheme.
func (Base64Scheme) Derive(name string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(name))
	return LocalPrefix + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, encoded)
}

// DefaultScheme is used wherever no scheme is injected.
var DefaultScheme IdentifierScheme = Base64Scheme{}

// LocalIdentifier derives a location with DefaultScheme.
func LocalIdentifier(name string) string {
	return DefaultScheme.Derive(name)
}

// IsLocalIdentifier reports whether a location looks like a derived handle.
func IsLocalIdentifier(location string) bool {
	return strings.HasPrefix(location, LocalPrefix)
}
