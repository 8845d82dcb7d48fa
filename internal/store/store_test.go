package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/api-portal/internal/catalog"
	"github.com/ziadkadry99/api-portal/internal/db"
)

type failingKV struct {
	getErr error
	setErr error
	inner  KV
}

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.inner.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.inner.Set(ctx, key, value)
}

func sampleDomains() []catalog.Domain {
	return []catalog.Domain{
		{Name: "Custom APIs", APIs: []catalog.API{
			{Name: "My API", Location: "https://x/y"},
			{Name: "Inline", Location: catalog.LocalIdentifier("Inline"), Local: true, Document: `{"a":1}`},
		}},
	}
}

func backends(t *testing.T) map[string]KV {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   NewFileKV(filepath.Join(t.TempDir(), "store")),
		"sqlite": NewSQLiteKV(database),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := New(kv, "", nil, nil)
			ctx := context.Background()

			assert.Empty(t, s.Read(ctx), "missing key reads as empty")

			s.Write(ctx, sampleDomains())
			assert.Equal(t, sampleDomains(), s.Read(ctx))
			assert.True(t, s.Has(ctx, "Custom APIs"))
			assert.False(t, s.Has(ctx, "Core Services"))

			s.Write(ctx, nil)
			assert.Empty(t, s.Read(ctx))
		})
	}
}

func TestStore_StorageLayout(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv, "", nil, nil)
	s.Write(context.Background(), sampleDomains())

	raw, found, err := kv.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"name":"Custom APIs","apis":[
		{"name":"My API","url":"https://x/y"},
		{"name":"Inline","url":"local-api-SW5saW5l","isLocal":true,"jsonContent":"{\"a\":1}"}
	]}]`, raw)
}

func TestStore_CorruptDataReadsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"not json", `{"name":"x"}`, `[{"name":`} {
		kv := NewMemoryKV()
		require.NoError(t, kv.Set(ctx, DefaultKey, raw))
		s := New(kv, "", nil, nil)
		assert.Empty(t, s.Read(ctx), "input %q", raw)
	}
}

func TestStore_ReadFailureReadsEmpty(t *testing.T) {
	s := New(&failingKV{getErr: errors.New("quota"), inner: NewMemoryKV()}, "", nil, nil)
	assert.Empty(t, s.Read(context.Background()))
}

func TestStore_WriteFailureKeepsPreviousData(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKV()
	New(inner, "", nil, nil).Write(ctx, sampleDomains())

	failing := &failingKV{setErr: errors.New("quota exceeded"), inner: inner}
	s := New(failing, "", nil, nil)
	s.Write(ctx, []catalog.Domain{{Name: "Other", APIs: []catalog.API{{Name: "a", Location: "b"}}}})

	assert.Equal(t, sampleDomains(), s.Read(ctx))
}

func TestStore_CustomKey(t *testing.T) {
	kv := NewMemoryKV()
	s := New(kv, "other-key", nil, nil)
	s.Write(context.Background(), sampleDomains())

	_, found, _ := kv.Get(context.Background(), DefaultKey)
	assert.False(t, found)
	assert.Equal(t, "other-key", s.Key())
	assert.Len(t, s.Read(context.Background()), 1)
}

func TestFileKV_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	kv := NewFileKV(dir)
	require.NoError(t, kv.Set(context.Background(), DefaultKey, "[]"))
	require.NoError(t, kv.Set(context.Background(), DefaultKey, "[1]"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	v, found, err := kv.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[1]", v)
}

func TestOpenKV(t *testing.T) {
	dir := t.TempDir()

	kv, cleanup, err := OpenKV(BackendSQLite, filepath.Join(dir, "portal.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	require.NoError(t, cleanup())

	kv, _, err = OpenKV(BackendFile, dir)
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, kv)

	kv, _, err = OpenKV(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	_, cleanup, err = OpenKV("redis", "")
	require.Error(t, err)
	require.NotNil(t, cleanup)
}
