package ports

import (
	"context"

	"github.com/aretw0/mframework/pkg/document"
)

// DocumentStore persists dumped model documents under a string key.
// This allows a populated model to be saved and restored later.
type DocumentStore interface {
	// Save persists the document for a given key, replacing any previous one.
	Save(ctx context.Context, key string, doc *document.Document) error

	// Load retrieves the document for a given key.
	// Returns domain.ErrDocumentNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*document.Document, error)

	// Delete removes the document for a given key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// List returns the stored keys in lexical order.
	List(ctx context.Context) ([]string, error)
}
