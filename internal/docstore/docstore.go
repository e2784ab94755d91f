// Package docstore is the narrow document-database contract the rest of
// the application talks to: schemaless collections of documents keyed by
// a string id, queried by field equality only.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document id does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// ErrDuplicateID is returned by CreateWithID when the id already exists.
var ErrDuplicateID = errors.New("docstore: duplicate document id")

// Client is implemented by Mongo for production and Memory for tests.
type Client interface {
	// QueryEquals decodes every document in collection whose field equals
	// value into out, which must be a pointer to a slice. An empty result
	// is not an error.
	QueryEquals(ctx context.Context, collection, field string, value any, out any) error

	// GetByID decodes the document with the given id into out, or returns
	// ErrNotFound.
	GetByID(ctx context.Context, collection, id string, out any) error

	// CreateWithID inserts body under the given id. When id is empty the
	// store assigns one. Returns the effective id, or ErrDuplicateID when
	// the id is already taken.
	CreateWithID(ctx context.Context, collection, id string, body any) (string, error)

	// Update overwrites the document with the given id. ErrNotFound when
	// the id does not exist.
	Update(ctx context.Context, collection, id string, body any) error

	// Delete removes the document with the given id. ErrNotFound when the
	// id does not exist.
	Delete(ctx context.Context, collection, id string) error
}
