// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"time"

	"github.com/taibuivan/tastedees/internal/platform/filestore"
)

// LegacyItem is one entry of the flat legacy list.
type LegacyItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category,omitempty"`
}

// LegacyList is the flat list older admin tooling appends to. Its entries are
// folded into the catalogue by the one-time migration only.
type LegacyList struct {
	items *filestore.Collection[LegacyItem]
	now   func() time.Time
}

// NewLegacyList opens the list at path. The file need not exist.
func NewLegacyList(path string) *LegacyList {
	return &LegacyList{
		items: filestore.New[LegacyItem](path, 0o644),
		now:   time.Now,
	}
}

// Path returns the backing file.
func (l *LegacyList) Path() string { return l.items.Path() }

// Items returns a copy of every entry.
func (l *LegacyList) Items() ([]LegacyItem, error) {
	var out []LegacyItem
	err := l.items.Read(func(items []LegacyItem) error {
		out = append(out, items...)
		return nil
	})
	return out, err
}

// Append stores item with a millisecond timestamp id, bumped past the last
// entry when two appends land in the same millisecond.
func (l *LegacyList) Append(_ context.Context, item LegacyItem) (LegacyItem, error) {
	err := l.items.Update(func(items []LegacyItem) ([]LegacyItem, error) {
		item.ID = l.now().UnixMilli()
		if n := len(items); n > 0 && items[n-1].ID >= item.ID {
			item.ID = items[n-1].ID + 1
		}
		return append(items, item), nil
	})
	return item, err
}
