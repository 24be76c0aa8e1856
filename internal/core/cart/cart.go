// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cart models the shopping cart as a state machine.

A cart is an ordered list of lines keyed by (product id, colour, size). The
only way to change it is [Cart.Apply] with one of four actions: Add, Remove,
SetQuantity and Clear. Apply never mutates its receiver, so a cart value can
be shared freely and persisted through the pure [Serialize]/[Deserialize]
boundary.

Quantities stay within [1, stock] of the product snapshot held by the line.
Setting a quantity of zero or less removes the line.
*/
package cart

import (
	"math"

	"github.com/taibuivan/tastedees/internal/core/product"
)

// Key identifies a cart line.
type Key struct {
	ProductID string
	Color     string
	Size      string
}

// Item is one cart line. The product is the snapshot taken when it was added.
type Item struct {
	Product       *product.Product `json:"product"`
	Quantity      int              `json:"quantity"`
	SelectedColor string           `json:"selectedColor"`
	SelectedSize  string           `json:"selectedSize"`
}

// Key returns the line identity.
func (i Item) Key() Key {
	return Key{ProductID: i.Product.ID, Color: i.SelectedColor, Size: i.SelectedSize}
}

// Subtotal is unit price times quantity.
func (i Item) Subtotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

// # Actions

// ActionKind enumerates the cart transitions.
type ActionKind int

const (
	ActionAdd ActionKind = iota + 1
	ActionRemove
	ActionSetQuantity
	ActionClear
)

// Action is a cart transition.
type Action struct {
	Kind     ActionKind
	Product  *product.Product
	Key      Key
	Quantity int
}

// Add puts one unit of p in the given colour and size.
func Add(p *product.Product, color, size string) Action {
	return Action{Kind: ActionAdd, Product: p, Key: Key{ProductID: p.ID, Color: color, Size: size}, Quantity: 1}
}

// Remove deletes the line whatever its quantity.
func Remove(key Key) Action {
	return Action{Kind: ActionRemove, Key: key}
}

// SetQuantity replaces the line quantity; zero or less removes the line.
func SetQuantity(key Key, quantity int) Action {
	return Action{Kind: ActionSetQuantity, Key: key, Quantity: quantity}
}

// Clear empties the cart.
func Clear() Action {
	return Action{Kind: ActionClear}
}

// # State

// Cart is an immutable cart state. The zero value is an empty cart.
type Cart struct {
	items []Item
}

// New builds a cart from lines, merging duplicates and applying the quantity
// bounds.
func New(items ...Item) Cart {
	var c Cart
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		c = c.Apply(Action{
			Kind:     ActionAdd,
			Product:  item.Product,
			Key:      item.Key(),
			Quantity: item.Quantity,
		})
	}
	return c
}

// Items returns a copy of the lines in insertion order.
func (c Cart) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Len is the number of distinct lines.
func (c Cart) Len() int { return len(c.items) }

// Quantity returns the quantity of a line, or zero.
func (c Cart) Quantity(key Key) int {
	if i := c.indexOf(key); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// ItemCount is the sum of all quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// TotalPrice is the sum of line subtotals rounded to cents.
func (c Cart) TotalPrice() float64 {
	total := 0.0
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return roundCents(total)
}

/*
Apply returns the state after action. Unknown keys and unavailable products
leave the cart unchanged.
*/
func (c Cart) Apply(action Action) Cart {
	switch action.Kind {
	case ActionAdd:
		return c.add(action)
	case ActionRemove:
		return c.without(action.Key)
	case ActionSetQuantity:
		return c.setQuantity(action.Key, action.Quantity)
	case ActionClear:
		return Cart{}
	default:
		return c
	}
}

func (c Cart) add(action Action) Cart {
	p := action.Product
	if p == nil || action.Quantity <= 0 || p.Stock <= 0 {
		return c
	}

	next := c.Items()
	if i := c.indexOf(action.Key); i >= 0 {
		next[i].Quantity = bound(next[i].Quantity+action.Quantity, p.Stock)
		next[i].Product = p
		return Cart{items: next}
	}

	next = append(next, Item{
		Product:       p,
		Quantity:      bound(action.Quantity, p.Stock),
		SelectedColor: action.Key.Color,
		SelectedSize:  action.Key.Size,
	})
	return Cart{items: next}
}

func (c Cart) setQuantity(key Key, quantity int) Cart {
	if quantity <= 0 {
		return c.without(key)
	}
	i := c.indexOf(key)
	if i < 0 {
		return c
	}

	next := c.Items()
	next[i].Quantity = bound(quantity, next[i].Product.Stock)
	if next[i].Quantity <= 0 {
		return c.without(key)
	}
	return Cart{items: next}
}

func (c Cart) without(key Key) Cart {
	i := c.indexOf(key)
	if i < 0 {
		return c
	}
	next := make([]Item, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	return Cart{items: next}
}

func (c Cart) indexOf(key Key) int {
	for i, item := range c.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func bound(quantity, stock int) int {
	return min(quantity, stock)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
