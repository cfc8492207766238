package stores

import (
	"encoding/json"

	identity "github.com/panoukos41/couchdb-identity"
	"github.com/panoukos41/couchdb-identity/couch"
	"github.com/panoukos41/couchdb-identity/models"
)

// newTestDB builds an in-memory database carrying the same map
// functions the identity design document ships, so store tests exercise
// the real view keys end to end.
func newTestDB(opts identity.Options) *couch.Memory {
	opts.LoadDefaults()
	db := couch.NewMemory()
	views := opts.Views

	doc := func(raw json.RawMessage) map[string]any {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil
		}
		return m
	}
	str := func(m map[string]any, field string) string {
		s, _ := m[field].(string)
		return s
	}
	each := func(m map[string]any, field string, fn func(map[string]any)) {
		items, _ := m[field].([]any)
		for _, item := range items {
			if obj, ok := item.(map[string]any); ok {
				fn(obj)
			}
		}
	}

	setView := func(v identity.View, fn couch.MapFunc) {
		db.SetView(v.Design, v.Name, fn)
	}

	userDoc := func(raw json.RawMessage) map[string]any {
		m := doc(raw)
		if m == nil || str(m, "discriminator") != opts.UserDiscriminator {
			return nil
		}
		return m
	}
	roleDoc := func(raw json.RawMessage) map[string]any {
		m := doc(raw)
		if m == nil || str(m, "discriminator") != opts.RoleDiscriminator {
			return nil
		}
		return m
	}

	setView(views.User, func(id string, raw json.RawMessage, emit func(key, value any)) {
		if m := userDoc(raw); m != nil {
			emit(id, str(m, "_rev"))
		}
	})
	setView(views.UserNormalizedUserName, func(id string, raw json.RawMessage, emit func(key, value any)) {
		if m := userDoc(raw); m != nil {
			emit(str(m, "normalized_username"), str(m, "_rev"))
		}
	})
	setView(views.UserNormalizedEmail, func(id string, raw json.RawMessage, emit func(key, value any)) {
		m := userDoc(raw)
		if m == nil {
			return
		}
		if email, ok := m["email"].(map[string]any); ok {
			if normalized := str(email, "normalized"); normalized != "" {
				emit(normalized, str(m, "_rev"))
			}
		}
	})
	setView(views.UserRoles, func(id string, raw json.RawMessage, emit func(key, value any)) {
		m := userDoc(raw)
		if m == nil {
			return
		}
		each(m, "roles", func(role map[string]any) {
			emit(str(role, "normalized_name"), str(m, "_rev"))
		})
	})
	setView(views.UserClaims, func(id string, raw json.RawMessage, emit func(key, value any)) {
		m := userDoc(raw)
		if m == nil {
			return
		}
		each(m, "claims", func(claim map[string]any) {
			emit([]any{str(claim, "type"), str(claim, "value")}, str(m, "_rev"))
		})
	})
	setView(views.UserLogins, func(id string, raw json.RawMessage, emit func(key, value any)) {
		m := userDoc(raw)
		if m == nil {
			return
		}
		each(m, "logins", func(login map[string]any) {
			emit([]any{str(login, "provider"), str(login, "key")}, str(m, "_rev"))
		})
	})
	setView(views.Role, func(id string, raw json.RawMessage, emit func(key, value any)) {
		if m := roleDoc(raw); m != nil {
			emit(id, str(m, "_rev"))
		}
	})
	setView(views.RoleNormalizedName, func(id string, raw json.RawMessage, emit func(key, value any)) {
		if m := roleDoc(raw); m != nil {
			emit(str(m, "normalized_name"), str(m, "_rev"))
		}
	})

	return db
}

// newTestStores wires a role and user store over one shared in-memory
// database, the way the two stores share a physical database in
// production.
func newTestStores(opts identity.Options) (*UserStore[models.User, *models.User], *RoleStore[models.Role, *models.Role], *couch.Memory) {
	db := newTestDB(opts)
	roles := NewRoles(db, opts)
	users := NewUsers(db, roles, opts)
	return users, roles, db
}
