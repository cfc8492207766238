// Package stores implements the persistence stores the identity
// framework's manager layer calls into: RoleStore and UserStore over a
// couch.Database. The stores translate each operation into at most one
// document read/write or one view query; optimistic concurrency,
// retries and caching are deliberately absent — a revision conflict
// surfaces to the caller as identity.ErrConflict.
package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	identity "github.com/panoukos41/couchdb-identity"
	"github.com/panoukos41/couchdb-identity/couch"
	"github.com/panoukos41/couchdb-identity/logging"
)

// store carries what both stores share: the database handle, the copied
// options and the discriminator scoping every query. Discriminator
// filtering and the query limit are applied here, in one place, so the
// concrete stores cannot drift apart.
type store struct {
	db            couch.Database
	log           logging.Logger
	views         identity.Views
	discriminator string
	limit         int
}

func newStore(db couch.Database, discriminator string, opts identity.Options) store {
	opts.LoadDefaults()
	return store{
		db:            db,
		log:           opts.Logger.With("database", opts.DatabaseName),
		views:         opts.Views,
		discriminator: discriminator,
		limit:         opts.QueryLimit,
	}
}

// fetch reads a raw document by id. Absence is not an error: it returns
// (nil, nil) so lookups can report an empty result.
func (s *store) fetch(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := s.db.Get(ctx, id, &raw)
	if err == nil {
		return raw, nil
	}
	if isAbsent(err) {
		return nil, nil
	}
	return nil, err
}

// queryDocs runs a view with include_docs and returns the documents
// that belong to this store's discriminator, truncated at the query
// limit. key may be nil (all rows), a string, or an ordered tuple.
func (s *store) queryDocs(ctx context.Context, v identity.View, key any) ([]json.RawMessage, error) {
	s.log.Debug(ctx, "view query", "design", v.Design, "view", v.Name, "key", key)

	rows, err := s.db.Query(ctx, v.Design, v.Name, couch.ViewQuery{
		Key:         key,
		IncludeDocs: true,
		Limit:       s.limit,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		if len(row.Doc) == 0 {
			continue
		}
		var envelope struct {
			Discriminator string `json:"discriminator"`
		}
		if err := json.Unmarshal(row.Doc, &envelope); err != nil {
			return nil, fmt.Errorf("stores: decode view row %q: %w", row.ID, err)
		}
		if envelope.Discriminator != s.discriminator {
			continue
		}
		docs = append(docs, row.Doc)
	}
	return docs, nil
}

// countView evaluates the reduce of a list view. The backing view emits
// only documents of one kind, so no discriminator post-filter applies.
func (s *store) countView(ctx context.Context, v identity.View) (int, error) {
	s.log.Debug(ctx, "view count", "design", v.Design, "view", v.Name)

	rows, err := s.db.Query(ctx, v.Design, v.Name, couch.ViewQuery{Reduce: true})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	var count int
	if err := json.Unmarshal(rows[0].Value, &count); err != nil {
		return 0, fmt.Errorf("stores: decode view count: %w", err)
	}
	return count, nil
}

// isAbsent tells whether err is the database's "no such document"
// answer, which lookups translate into an empty result.
func isAbsent(err error) bool {
	return errors.Is(err, identity.ErrNotFound)
}

// decodeDoc unmarshals a raw document into a fresh T and hands back the
// capability pointer.
func decodeDoc[T any, P interface{ *T }](raw json.RawMessage) (P, error) {
	doc := new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("stores: decode document: %w", err)
	}
	return P(doc), nil
}
