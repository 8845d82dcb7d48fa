package catalog

import (
	"context"

	"go.uber.org/zap"
)

// Source supplies the user-defined domains. The store implements it.
type Source interface {
	Read(ctx context.Context) []Domain
}

// Builder merges the built-in catalog with the user-defined domains.
// Build is a pure function of those two inputs and is run on every read.
type Builder struct {
	builtin Catalog
	source  Source
	scheme  IdentifierScheme
	logger  *zap.Logger
}

// NewBuilder creates a Builder. A nil scheme falls back to DefaultScheme.
func NewBuilder(builtin Catalog, source Source, scheme IdentifierScheme, logger *zap.Logger) *Builder {
	if scheme == nil {
		scheme = DefaultScheme
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		builtin: builtin.Clone(),
		source:  source,
		scheme:  scheme,
		logger:  logger,
	}
}

// Scheme returns the identifier scheme used for local entries.
func (b *Builder) Scheme() IdentifierScheme { return b.scheme }

// Builtin returns a copy of the built-in domains.
func (b *Builder) Builtin() Catalog { return b.builtin.Clone() }

// Build returns built-in domains followed by the stored domains, with every
// local entry's location rederived from its name.
func (b *Builder) Build(ctx context.Context) Catalog {
	user := b.source.Read(ctx)
	out := make(Catalog, 0, len(b.builtin)+len(user))
	out = append(out, b.builtin.Clone()...)

	owners := make(map[string]string)
	for _, d := range user {
		apis := make([]API, len(d.APIs))
		for i, a := range d.APIs {
			if a.Local && a.Document != "" {
				a.Location = b.scheme.Derive(a.Name)
				if prev, ok := owners[a.Location]; ok {
					b.logger.Debug("local api shadowed by earlier entry",
						zap.String("api", a.Name),
						zap.String("domain", d.Name),
						zap.String("shadowed_by", prev))
				} else {
					owners[a.Location] = d.Name
				}
			}
			apis[i] = a
		}
		out = append(out, Domain{Name: d.Name, APIs: apis})
	}
	return out
}
