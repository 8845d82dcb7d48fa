// Package store persists the user-defined part of the catalog as one JSON
// document under a single key. Every failure degrades to an empty catalog
// or a no-op write and is logged, never returned.
package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/metrics"
)

// DefaultKey is the storage key holding the user catalog.
const DefaultKey = "api-portal-custom-schemas"

// Store reads and writes the user-defined domains.
type Store struct {
	kv      KV
	key     string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Store over kv. An empty key uses DefaultKey.
func New(kv KV, key string, logger *zap.Logger, m *metrics.Metrics) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, key: key, logger: logger, metrics: m}
}

// Key returns the storage key in use.
func (s *Store) Key() string { return s.key }

// Read returns the stored domains. A missing key, a storage error or a
// corrupt document all yield an empty slice.
func (s *Store) Read(ctx context.Context) []catalog.Domain {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("reading custom catalog failed", zap.String("key", s.key), zap.Error(err))
		s.metrics.StoreFailure("read")
		return []catalog.Domain{}
	}
	if !found || raw == "" {
		return []catalog.Domain{}
	}

	var domains []catalog.Domain
	if err := json.Unmarshal([]byte(raw), &domains); err != nil {
		s.logger.Warn("custom catalog is corrupt, treating as empty", zap.String("key", s.key), zap.Error(err))
		s.metrics.StoreFailure("read")
		return []catalog.Domain{}
	}
	if domains == nil {
		domains = []catalog.Domain{}
	}
	for i := range domains {
		if domains[i].APIs == nil {
			domains[i].APIs = []catalog.API{}
		}
	}
	return domains
}

// Write replaces the stored domains. Failures are logged and leave the
// previous value in place.
func (s *Store) Write(ctx context.Context, domains []catalog.Domain) {
	if domains == nil {
		domains = []catalog.Domain{}
	}
	data, err := json.Marshal(domains)
	if err != nil {
		s.logger.Error("encoding custom catalog failed", zap.Error(err))
		s.metrics.StoreFailure("write")
		return
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Error("saving custom catalog failed", zap.String("key", s.key), zap.Error(err))
		s.metrics.StoreFailure("write")
		return
	}
	s.logger.Debug("saved custom catalog", zap.String("key", s.key), zap.Int("domains", len(domains)))
}

// Has reports whether a domain with the given name is stored.
func (s *Store) Has(ctx context.Context, domainName string) bool {
	for _, d := range s.Read(ctx) {
		if d.Name == domainName {
			return true
		}
	}
	return false
}
