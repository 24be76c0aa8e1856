// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StorageKey is the browser storage key the storefront keeps the cart under.
const StorageKey = "taste-dees-cart"

// Serialize encodes the cart as the JSON array the storefront persists.
func Serialize(c Cart) ([]byte, error) {
	items := c.Items()
	if items == nil {
		items = []Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("cart: encode: %w", err)
	}
	return data, nil
}

// Deserialize rebuilds a cart. Blank input is an empty cart; lines without a
// product are dropped and duplicate keys are merged.
func Deserialize(data []byte) (Cart, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Cart{}, nil
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return Cart{}, fmt.Errorf("cart: decode: %w", err)
	}
	return New(items...), nil
}
