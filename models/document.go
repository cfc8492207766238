// Package models defines the documents the identity stores persist:
// users and roles with their embedded claim, login and role-snapshot
// collections. Field names follow the CouchDB JSON contract
// (snake_case, _id/_rev for identity and revision).
package models

import "strings"

// Document is the base every stored document embeds. The ID is assigned
// at creation when absent and immutable thereafter. Rev is the opaque
// revision token the database advances on every write; updates and
// deletes must present the current value or fail with a conflict.
// Discriminator tags the logical document kind; the owning store sets
// it and scopes every query by it.
type Document struct {
	ID            string `json:"_id,omitempty"`
	Rev           string `json:"_rev,omitempty"`
	Discriminator string `json:"discriminator,omitempty"`
}

// Doc returns the document metadata. It exists so custom user and role
// types satisfy UserLike and RoleLike by embedding.
func (d *Document) Doc() *Document { return d }

// Normalize is the case-folding applied by the convenience
// constructors (NewUser, NewRole, NewEmail). The framework's own
// normalizer is authoritative; the stores never re-normalize, they
// trust the caller to keep normalized fields in sync.
func Normalize(s string) string { return strings.ToUpper(s) }
