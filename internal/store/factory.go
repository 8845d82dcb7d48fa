package store

import (
	"fmt"

	"github.com/ziadkadry99/api-portal/internal/db"
)

// Backend names accepted by OpenKV.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// OpenKV opens the named backend at path. The returned cleanup function
// releases any underlying resources and is never nil.
func OpenKV(backend, path string) (KV, func() error, error) {
	noop := func() error { return nil }
	switch backend {
	case BackendSQLite, "":
		database, err := db.Open(path)
		if err != nil {
			return nil, noop, fmt.Errorf("opening sqlite store: %w", err)
		}
		return NewSQLiteKV(database), database.Close, nil
	case BackendFile:
		return NewFileKV(path), noop, nil
	case BackendMemory:
		return NewMemoryKV(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", backend)
	}
}
