package identity

import "errors"

// Sentinel errors shared by all stores. Callers should use errors.Is to
// match these values. Cancellation is not represented here: operations
// aborted by their context return the context's error unchanged.
var (
	// ErrInvalidArgument reports a required argument that is nil or
	// empty. It is raised before any I/O happens.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound reports a referenced document that does not exist.
	// Plain lookups return an absent result instead; ErrNotFound is
	// reserved for reference resolution (adding a user to a role that
	// does not exist) and for deletes of missing documents.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a revision mismatch on update or delete.
	// The stores never retry; the conflict surfaces to the caller.
	ErrConflict = errors.New("document update conflict")
)
