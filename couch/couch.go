// Package couch is the database boundary of the identity stores: a
// minimal Database interface plus a kivik-backed implementation for
// real CouchDB instances and an in-memory implementation for tests.
// The interface deliberately exposes only what the stores need; richer
// driver features stay behind it.
package couch

import (
	"context"
	"encoding/json"
)

// Database is the subset of a CouchDB database used by the stores.
//
// Error contract: Get and Delete return identity.ErrNotFound for a
// missing document; Put and Delete return identity.ErrConflict on a
// revision mismatch. Transport failures are wrapped minimally and
// surface to the caller; no call retries.
type Database interface {
	// Get reads the document with the given id into out.
	Get(ctx context.Context, id string, out any) error

	// Put creates or updates a document and returns the new revision.
	// The document body carries the current revision (_rev) for
	// updates; an absent _rev means creation.
	Put(ctx context.Context, id string, doc any) (rev string, err error)

	// Delete removes the document. The revision must be current.
	Delete(ctx context.Context, id, rev string) error

	// Query executes a view inside a design document.
	Query(ctx context.Context, design, view string, q ViewQuery) ([]Row, error)
}

// ViewQuery selects rows from a view. A nil Key returns all rows; keys
// may be strings or ordered string tuples, matching what the view
// emitted. IncludeDocs attaches the full documents to the rows (more
// expensive; omit it when keys and revisions suffice). Reduce collapses
// the view into its aggregate (a count for the identity views) instead
// of returning individual rows.
type ViewQuery struct {
	Key         any
	IncludeDocs bool
	Reduce      bool
	Limit       int
}

// Row is one view result. Key and Value are the raw JSON the view
// emitted; Doc is the raw document when IncludeDocs was set.
type Row struct {
	ID    string
	Key   json.RawMessage
	Value json.RawMessage
	Doc   json.RawMessage
}
