// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package filestore_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tastedees/internal/platform/filestore"
)

type record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestCollection_MissingAndBlankFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	c := filestore.New[record](path, 0o600)

	exists, err := c.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, c.Read(func(items []record) error {
		assert.Empty(t, items)
		return nil
	}))

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))
	require.NoError(t, c.Read(func(items []record) error {
		assert.Empty(t, items)
		return nil
	}))
}

func TestCollection_UpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "items.json")
	c := filestore.New[record](path, 0o600)

	require.NoError(t, c.Update(func(items []record) ([]record, error) {
		return append(items, record{ID: 1, Name: "tee"}), nil
	}))

	reopened := filestore.New[record](path, 0o600)
	require.NoError(t, reopened.Read(func(items []record) error {
		assert.Equal(t, []record{{ID: 1, Name: "tee"}}, items)
		return nil
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCollection_UpdateErrorWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	c := filestore.New[record](path, 0o600)
	boom := errors.New("boom")

	err := c.Update(func(items []record) ([]record, error) {
		return append(items, record{ID: 1}), boom
	})

	assert.ErrorIs(t, err, boom)
	exists, err := c.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCollection_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := filestore.New[record](path, 0o600).Read(func([]record) error { return nil })
	assert.ErrorIs(t, err, filestore.ErrCorrupt)
}

/*
TestCollection_QuarantineCorrupt moves an undecodable file aside and leaves
readable or missing files alone.
*/
func TestCollection_QuarantineCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	c := filestore.New[record](path, 0o600)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	moved, err := c.QuarantineCorrupt(at)
	require.NoError(t, err)
	assert.Empty(t, moved)

	require.NoError(t, c.Replace([]record{{ID: 1}}))
	moved, err = c.QuarantineCorrupt(at)
	require.NoError(t, err)
	assert.Empty(t, moved)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	moved, err = c.QuarantineCorrupt(at)
	require.NoError(t, err)
	assert.Equal(t, path+".corrupt-20260301T090000.000000000Z", moved)

	raw, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))

	exists, err := c.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

/*
TestCollection_ConcurrentWriters checks that parallel read-modify-write cycles
do not lose updates.
*/
func TestCollection_ConcurrentWriters(t *testing.T) {
	c := filestore.New[record](filepath.Join(t.TempDir(), "items.json"), 0o600)

	var wg sync.WaitGroup
	for i := range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Update(func(items []record) ([]record, error) {
				return append(items, record{ID: i}), nil
			}))
		}()
	}
	wg.Wait()

	require.NoError(t, c.Read(func(items []record) error {
		assert.Len(t, items, 25)
		return nil
	}))
}
