// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package filestore persists a collection of records as a single JSON array on disk.

Every mutation is a read-modify-write of the whole file. Writers are serialised
by an in-process mutex and the new content replaces the old file atomically
(temp file in the same directory, fsync, rename), so a crash never leaves a
half-written array and two concurrent writers never lose each other's update.

Only a single process may own a file; there is no cross-process locking.
*/
package filestore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrCorrupt wraps decode failures of the backing file.
var ErrCorrupt = errors.New("filestore: corrupt file")

// Collection is a JSON array of T stored at a fixed path.
type Collection[T any] struct {
	mu   sync.RWMutex
	path string
	perm os.FileMode
}

// New returns a collection stored at path with the given file mode.
func New[T any](path string, perm os.FileMode) *Collection[T] {
	return &Collection[T]{path: path, perm: perm}
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string { return c.path }

// Exists reports whether the backing file is present.
func (c *Collection[T]) Exists() (bool, error) {
	_, err := os.Stat(c.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("filestore: stat %s: %w", c.path, err)
}

// Read calls fn with the current records under a shared lock. fn must not
// retain or modify the slice.
func (c *Collection[T]) Read(fn func(items []T) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	return fn(items)
}

// Update runs a read-modify-write cycle under the exclusive lock. If fn returns
// an error nothing is written and the error is returned unchanged.
func (c *Collection[T]) Update(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}

	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(next)
}

// Replace overwrites the collection with items.
func (c *Collection[T]) Replace(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(items)
}

// QuarantineCorrupt renames an undecodable backing file to
// "<path>.corrupt-<UTC timestamp>" and returns the new path. It returns ""
// when the file is missing or decodes cleanly.
func (c *Collection[T]) QuarantineCorrupt(at time.Time) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.load()
	if err == nil || !errors.Is(err, ErrCorrupt) {
		return "", err
	}

	target := c.path + ".corrupt-" + at.UTC().Format("20060102T150405.000000000Z")
	if err := os.Rename(c.path, target); err != nil {
		return "", fmt.Errorf("filestore: quarantine %s: %w", c.path, err)
	}
	return target, nil
}

// load treats a missing or blank file as an empty collection.
func (c *Collection[T]) load() ([]T, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", c.path, err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, c.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", c.path, err)
	}
	return WriteAtomic(c.path, data, c.perm)
}

// WriteAtomic writes data to path through a temp file and rename.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("filestore: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("filestore: write %s: %w", tmpPath, err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("filestore: sync %s: %w", tmpPath, err))
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup(fmt.Errorf("filestore: chmod %s: %w", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("filestore: close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("filestore: replace %s: %w", path, err)
	}
	return nil
}
