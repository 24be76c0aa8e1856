// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/taibuivan/tastedees/internal/platform/filestore"
)

// FileRepository keeps the catalogue in a JSON array file.
type FileRepository struct {
	products *filestore.Collection[Product]
}

// NewFileRepository stores products at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{products: filestore.New[Product](path, 0o644)}
}

func (r *FileRepository) List(_ context.Context) ([]*Product, error) {
	var out []*Product
	err := r.products.Read(func(items []Product) error {
		out = make([]*Product, len(items))
		for i := range items {
			out[i] = items[i].Clone()
		}
		return nil
	})
	return out, err
}

func (r *FileRepository) Get(_ context.Context, id string) (*Product, error) {
	var found *Product
	err := r.products.Read(func(items []Product) error {
		if i := indexOf(items, id); i >= 0 {
			found = items[i].Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrProductNotFound
	}
	return found, nil
}

func (r *FileRepository) Create(_ context.Context, p *Product) error {
	return r.products.Update(func(items []Product) ([]Product, error) {
		return append(items, *p.Clone()), nil
	})
}

func (r *FileRepository) Update(_ context.Context, id string, mutate func(*Product) error) (*Product, error) {
	var result *Product
	err := r.products.Update(func(items []Product) ([]Product, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, ErrProductNotFound
		}

		working := items[i].Clone()
		if err := mutate(working); err != nil {
			return nil, err
		}
		working.ID = items[i].ID

		items[i] = *working
		result = working.Clone()
		return items, nil
	})
	return result, err
}

func (r *FileRepository) Delete(_ context.Context, id string) error {
	return r.products.Update(func(items []Product) ([]Product, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, ErrProductNotFound
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (r *FileRepository) Provisioned(_ context.Context) (bool, error) {
	return r.products.Exists()
}

func (r *FileRepository) QuarantineUnreadable(_ context.Context) (string, error) {
	return r.products.QuarantineCorrupt(time.Now())
}

func (r *FileRepository) Seed(_ context.Context, products []*Product) error {
	items := make([]Product, len(products))
	for i, p := range products {
		items[i] = *p.Clone()
	}
	return r.products.Replace(items)
}

func indexOf(items []Product, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// # Migration Marker

// FileMarker persists the migration marker as a small file next to the catalogue.
type FileMarker struct {
	path string
}

// NewFileMarker returns a marker stored at path.
func NewFileMarker(path string) *FileMarker {
	return &FileMarker{path: path}
}

func (m *FileMarker) Done(_ context.Context) (bool, error) {
	_, err := os.Stat(m.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("product: stat marker: %w", err)
	}
}

func (m *FileMarker) Mark(_ context.Context) error {
	stamp := []byte(time.Now().UTC().Format(time.RFC3339) + "\n")
	return filestore.WriteAtomic(m.path, stamp, 0o644)
}
