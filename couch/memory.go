package couch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	identity "github.com/panoukos41/couchdb-identity"
)

// MapFunc is the in-memory equivalent of a CouchDB view map function.
// It receives every document in the database and calls emit for each
// row the view should produce.
type MapFunc func(id string, doc json.RawMessage, emit func(key, value any))

// Memory is an in-memory Database with CouchDB-style semantics:
// revision tokens, optimistic concurrency and map-function views. It is
// meant for tests and local development.
type Memory struct {
	mu    sync.RWMutex
	gen   int
	docs  map[string]json.RawMessage
	views map[string]MapFunc
}

func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string]json.RawMessage),
		views: make(map[string]MapFunc),
	}
}

// SetView registers the map function backing design/view queries.
func (m *Memory) SetView(design, view string, fn MapFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[design+"/"+view] = fn
}

// Len returns the number of stored documents.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *Memory) Get(ctx context.Context, id string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	body, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return identity.ErrNotFound
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("couch: decode document %q: %w", id, err)
	}
	return nil
}

func (m *Memory) Put(ctx context.Context, id string, doc any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("couch: encode document %q: %w", id, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("couch: document %q is not an object: %w", id, err)
	}
	incoming := rawString(fields["_rev"])

	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.docs[id]; ok {
		if incoming != docRev(current) {
			return "", identity.ErrConflict
		}
	} else if incoming != "" {
		return "", identity.ErrConflict
	}

	m.gen++
	rev := nextRev(incoming, m.gen)
	fields["_id"] = mustRaw(id)
	fields["_rev"] = mustRaw(rev)
	stored, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("couch: encode document %q: %w", id, err)
	}
	m.docs[id] = stored
	return rev, nil
}

func (m *Memory) Delete(ctx context.Context, id, rev string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.docs[id]
	if !ok {
		return identity.ErrNotFound
	}
	if rev != docRev(current) {
		return identity.ErrConflict
	}
	delete(m.docs, id)
	return nil
}

func (m *Memory) Query(ctx context.Context, design, view string, q ViewQuery) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	fn, ok := m.views[design+"/"+view]
	if !ok {
		return nil, identity.ErrNotFound
	}

	var rows []Row
	for id, body := range m.docs {
		doc := body
		fn(id, doc, func(key, value any) {
			rows = append(rows, Row{
				ID:    id,
				Key:   mustMarshal(key),
				Value: mustMarshal(value),
				Doc:   doc,
			})
		})
	}

	if q.Key != nil {
		want := mustMarshal(q.Key)
		kept := rows[:0]
		for _, row := range rows {
			if bytes.Equal(row.Key, want) {
				kept = append(kept, row)
			}
		}
		rows = kept
	}

	// CouchDB orders view rows by key, then document id.
	sort.Slice(rows, func(i, j int) bool {
		if c := bytes.Compare(rows[i].Key, rows[j].Key); c != 0 {
			return c < 0
		}
		return rows[i].ID < rows[j].ID
	})

	if q.Reduce {
		return []Row{{
			Key:   json.RawMessage("null"),
			Value: json.RawMessage(strconv.Itoa(len(rows))),
		}}, nil
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	if !q.IncludeDocs {
		for i := range rows {
			rows[i].Doc = nil
		}
	}
	return rows, nil
}

// docRev extracts the _rev of a stored body.
func docRev(body json.RawMessage) string {
	var meta struct {
		Rev string `json:"_rev"`
	}
	_ = json.Unmarshal(body, &meta)
	return meta.Rev
}

// nextRev advances a CouchDB-style "generation-suffix" revision token.
func nextRev(current string, seq int) string {
	gen := 0
	if i := strings.IndexByte(current, '-'); i > 0 {
		gen, _ = strconv.Atoi(current[:i])
	}
	return fmt.Sprintf("%d-%08x", gen+1, seq)
}

func rawString(raw json.RawMessage) string {
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

func mustRaw(s string) json.RawMessage {
	return mustMarshal(s)
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("couch: marshal view key/value: %v", err))
	}
	return data
}
