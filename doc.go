/*
Package identity implements persistence stores for a web-application
identity framework on top of CouchDB.

Users and roles are stored as JSON documents that share one physical
database. A discriminator field partitions the database into logical
document kinds, and every query a store issues is scoped to the store's
own discriminator. Lookups beyond the primary key (normalized user name,
normalized email, role membership, claims, logins) go through
precomputed design-document views; the view names are configurable
through Options.

The stores in package stores implement the operation set the framework's
manager layer expects: document CRUD with optimistic concurrency via
CouchDB revision tokens, view-backed finders, and in-memory mutation of
the embedded claim, role and login collections. Mutating an embedded
collection never persists anything on its own; callers persist by
calling Update on the owning document.

Package couch holds the database boundary: a small Database interface,
a kivik-backed implementation for real CouchDB instances, and an
in-memory implementation for tests.
*/
package identity
