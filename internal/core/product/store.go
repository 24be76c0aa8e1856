// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import "context"

// # Product Data Access

// Repository is the product store contract. Listing order is insertion order.
type Repository interface {

	// List returns every product in insertion order.
	List(ctx context.Context) ([]*Product, error)

	/*
		Get returns one product.

		Returns:
		  - error: ErrProductNotFound
	*/
	Get(ctx context.Context, id string) (*Product, error)

	// Create appends a product.
	Create(ctx context.Context, p *Product) error

	/*
		Update loads the product, applies mutate and persists the result in a
		single read-modify-write cycle. If mutate fails nothing is written.

		Returns:
		  - *Product: the stored result
		  - error: ErrProductNotFound, the mutate error, or storage failures
	*/
	Update(ctx context.Context, id string, mutate func(p *Product) error) (*Product, error)

	/*
		Delete removes a product irreversibly.

		Returns:
		  - error: ErrProductNotFound
	*/
	Delete(ctx context.Context, id string) error

	// Provisioned reports whether the backing store already holds a catalogue,
	// even an empty one.
	Provisioned(ctx context.Context) (bool, error)

	// QuarantineUnreadable moves a catalogue that cannot be decoded out of the
	// way and returns where it went, or "" when the catalogue is readable.
	QuarantineUnreadable(ctx context.Context) (string, error)

	// Seed writes the initial catalogue.
	Seed(ctx context.Context, products []*Product) error
}

// Marker records that the one-time legacy migration has run.
type Marker interface {
	Done(ctx context.Context) (bool, error)
	Mark(ctx context.Context) error
}
