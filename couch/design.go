package couch

import (
	"context"
	"errors"
	"fmt"

	identity "github.com/panoukos41/couchdb-identity"
)

// designDoc is the CouchDB design document wire format.
type designDoc struct {
	ID       string                `json:"_id"`
	Rev      string                `json:"_rev,omitempty"`
	Language string                `json:"language"`
	Views    map[string]designView `json:"views"`
}

type designView struct {
	Map    string `json:"map"`
	Reduce string `json:"reduce,omitempty"`
}

// EnsureDesign writes the design documents backing the view table of
// opts into the database, creating them or overwriting an existing
// revision. Safe to run at every startup.
//
// The generated views emit exactly the row contracts the stores query:
// see the Views documentation in the root package.
func EnsureDesign(ctx context.Context, db Database, opts identity.Options) error {
	opts.LoadDefaults()

	docs := map[string]*designDoc{}
	doc := func(design string) *designDoc {
		d, ok := docs[design]
		if !ok {
			d = &designDoc{
				ID:       "_design/" + design,
				Language: "javascript",
				Views:    map[string]designView{},
			}
			docs[design] = d
		}
		return d
	}
	add := func(v identity.View, dv designView) {
		doc(v.Design).Views[v.Name] = dv
	}

	user := opts.UserDiscriminator
	role := opts.RoleDiscriminator
	views := opts.Views

	add(views.User, designView{
		Map:    mapEmit(user, "emit(doc._id, doc._rev);"),
		Reduce: "_count",
	})
	add(views.UserNormalizedUserName, designView{
		Map: mapEmit(user, "emit(doc.normalized_username, doc._rev);"),
	})
	add(views.UserNormalizedEmail, designView{
		Map: mapEmit(user, "if (doc.email && doc.email.normalized) { emit(doc.email.normalized, doc._rev); }"),
	})
	add(views.UserRoles, designView{
		Map: mapEach(user, "roles", "emit(item.normalized_name, doc._rev);"),
	})
	add(views.UserClaims, designView{
		Map: mapEach(user, "claims", "emit([item.type, item.value], doc._rev);"),
	})
	add(views.UserLogins, designView{
		Map: mapEach(user, "logins", "emit([item.provider, item.key], doc._rev);"),
	})
	add(views.Role, designView{
		Map:    mapEmit(role, "emit(doc._id, doc._rev);"),
		Reduce: "_count",
	})
	add(views.RoleNormalizedName, designView{
		Map: mapEmit(role, "emit(doc.normalized_name, doc._rev);"),
	})

	for _, d := range docs {
		var current struct {
			Rev string `json:"_rev"`
		}
		err := db.Get(ctx, d.ID, &current)
		if err != nil && !isMissing(err) {
			return err
		}
		d.Rev = current.Rev
		if _, err := db.Put(ctx, d.ID, d); err != nil {
			return err
		}
	}
	return nil
}

func isMissing(err error) bool {
	return errors.Is(err, identity.ErrNotFound)
}

// mapEmit builds a map function emitting once per document of the given
// discriminator.
func mapEmit(discriminator, emit string) string {
	return fmt.Sprintf("function (doc) { if (doc.discriminator === %q) { %s } }", discriminator, emit)
}

// mapEach builds a map function emitting once per element of an
// embedded array field.
func mapEach(discriminator, field, emit string) string {
	body := fmt.Sprintf("if (doc.%s) { doc.%s.forEach(function (item) { %s }); }", field, field, emit)
	return mapEmit(discriminator, body)
}
