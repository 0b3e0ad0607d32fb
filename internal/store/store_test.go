package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAll(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileStore(filepath.Join(dir, "state", "game.json"), nil)
	require.NoError(t, err)
	sqlite, err := OpenSQLite(filepath.Join(dir, "game.db"))
	require.NoError(t, err)
	cached, err := NewCachedStore(NewMemoryStore(), 4)
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
		"sqlite": sqlite,
		"cached": cached,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "roundState")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.PutAll(ctx, map[string][]byte{
				"roundState": []byte(`{"current_round":1}`),
				"resources":  []byte(`{"honey":300000}`),
			}))

			v, err := s.Get(ctx, "roundState")
			require.NoError(t, err)
			assert.JSONEq(t, `{"current_round":1}`, string(v))

			require.NoError(t, s.PutAll(ctx, map[string][]byte{"roundState": []byte(`{"current_round":2}`)}))
			v, err = s.Get(ctx, "roundState")
			require.NoError(t, err)
			assert.JSONEq(t, `{"current_round":2}`, string(v))

			v, err = s.Get(ctx, "resources")
			require.NoError(t, err)
			assert.JSONEq(t, `{"honey":300000}`, string(v))

			require.NoError(t, s.Delete(ctx, "roundState", "resources", "missing"))
			_, err = s.Get(ctx, "resources")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestReturnedBlobsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	blob := []byte("abc")
	require.NoError(t, s.PutAll(ctx, map[string][]byte{"k": blob}))
	blob[0] = 'x'

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	v[1] = 'y'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "game.json")

	s, err := NewFileStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.PutAll(ctx, map[string][]byte{"eventFlowState": []byte(`{"current_stage":2}`)}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]string
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "eventFlowState")
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	reopened, err := NewFileStore(path, nil)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "eventFlowState")
	require.NoError(t, err)
	assert.Equal(t, `{"current_stage":2}`, string(v))
}

func TestFileStoreMovesCorruptDocumentAside(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "game.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0644))

	s, err := NewFileStore(path, nil)
	require.NoError(t, err)
	_, err = s.Get(ctx, "roundState")
	assert.ErrorIs(t, err, ErrNotFound)

	moved := s.Recovered()
	require.NotEmpty(t, moved)
	raw, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "{truncated", string(raw))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.PutAll(ctx, map[string][]byte{"roundState": []byte(`{"current_round":1}`)}))
	reopened, err := NewFileStore(path, nil)
	require.NoError(t, err)
	assert.Empty(t, reopened.Recovered())
	v, err := reopened.Get(ctx, "roundState")
	require.NoError(t, err)
	assert.Equal(t, `{"current_round":1}`, string(v))
}

func TestSQLiteStoreReportsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "game.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PutAll(ctx, map[string][]byte{"eventFlowState": []byte(`{}`)}))
	_, err = s.conn.Exec("UPDATE kv SET value = x'00112233' WHERE key = ?", "eventFlowState")
	require.NoError(t, err)

	_, err = s.Get(ctx, "eventFlowState")
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreCompressesAndSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "game.db")
	payload := []byte(`{"events":[` + strings.Repeat(`{"sales":100},`, 200) + `{"sales":1}]}`)

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.PutAll(ctx, map[string][]byte{"financialReportHistory": payload}))

	var stored []byte
	require.NoError(t, s.conn.Get(&stored, "SELECT value FROM kv WHERE key = ?", "financialReportHistory"))
	assert.Less(t, len(stored), len(payload))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	v, err := reopened.Get(ctx, "financialReportHistory")
	require.NoError(t, err)
	assert.Equal(t, payload, v)
}

func TestCachedStoreServesFromCache(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()
	cached, err := NewCachedStore(backend, 2)
	require.NoError(t, err)

	require.NoError(t, cached.PutAll(ctx, map[string][]byte{"k": []byte("v1")}))
	require.NoError(t, backend.PutAll(ctx, map[string][]byte{"k": []byte("changed-behind-cache")}))

	v, err := cached.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(v))

	require.NoError(t, cached.Delete(ctx, "k"))
	_, err = cached.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(DriverMemory, "", 0, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(DriverFile, filepath.Join(dir, "a.json"), 8, nil)
	require.NoError(t, err)
	assert.IsType(t, &CachedStore{}, s)

	s, err = Open(DriverSQLite, filepath.Join(dir, "a.db"), 0, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open("redis", "", 0, nil)
	assert.Error(t, err)
}
