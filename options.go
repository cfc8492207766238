package identity

import "github.com/panoukos41/couchdb-identity/logging"

// Defaults applied by Options.LoadDefaults.
const (
	DefaultDatabaseName      = "identity"
	DefaultUserDiscriminator = "identity.user"
	DefaultRoleDiscriminator = "identity.role"

	// DefaultQueryLimit caps unbounded view queries. CouchDB itself
	// allows far more rows; list operations silently truncate here.
	DefaultQueryLimit = 500_000
)

// Options configures the stores. It is plain data supplied once at
// construction time: stores copy it, so mutating the caller's value
// afterwards has no effect on queries already wired up.
//
// Fields:
//   - DatabaseName: name of the physical database all documents share.
//   - UserDiscriminator / RoleDiscriminator: discriminator values
//     partitioning the database into user and role documents.
//   - QueryLimit: maximum rows returned by list operations.
//   - Views: the view-index table, see DefaultViews.
//   - Logger: receives debug-level query traces. Failures are never
//     logged; they surface to the caller.
type Options struct {
	DatabaseName      string
	UserDiscriminator string
	RoleDiscriminator string
	QueryLimit        int
	Views             Views
	Logger            logging.Logger
}

// LoadDefaults populates every unset field with its default value.
func (o *Options) LoadDefaults() {
	if o.DatabaseName == "" {
		o.DatabaseName = DefaultDatabaseName
	}
	if o.UserDiscriminator == "" {
		o.UserDiscriminator = DefaultUserDiscriminator
	}
	if o.RoleDiscriminator == "" {
		o.RoleDiscriminator = DefaultRoleDiscriminator
	}
	if o.QueryLimit <= 0 {
		o.QueryLimit = DefaultQueryLimit
	}
	o.Views.loadDefaults()
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}
