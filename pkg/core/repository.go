package core

import "context"

// Repository defines the contract for holding the ordered page collection.
// Adhering to this interface keeps the Store independent of how pages are
// kept. Order is significant: index 0 is the front of the collection.
type Repository interface {
	// Insert places a page at the front of the collection.
	// It fails with ErrDuplicateID if the ID is already present.
	Insert(ctx context.Context, p Page) error

	// Get retrieves a page by its ID.
	Get(ctx context.Context, id string) (Page, error)

	// Replace overwrites the page with the same ID, keeping its position.
	Replace(ctx context.Context, p Page) error

	// Delete removes a page by its ID.
	Delete(ctx context.Context, id string) error

	// List returns all pages in collection order.
	List(ctx context.Context) ([]Page, error)
}
