package models

// Role is a role document. Equality compares the normalized name only:
// two in-memory instances are the same role when their normalized names
// match, independent of other mutable fields. Keeping NormalizedName
// equal to the caller's normalization of Name is the caller's job; the
// stores never enforce or repair it.
type Role struct {
	Document

	Name           string `json:"name,omitempty"`
	NormalizedName string `json:"normalized_name,omitempty"`
	Claims         Claims `json:"claims,omitempty"`
}

// NewRole builds a Role with NormalizedName derived via Normalize.
func NewRole(name string) *Role {
	return &Role{Name: name, NormalizedName: Normalize(name)}
}

// AsRole returns the base role data; see RoleLike.
func (r *Role) AsRole() *Role { return r }

func (r *Role) Equal(other *Role) bool {
	return other != nil && r.NormalizedName == other.NormalizedName
}

// Snapshot returns a denormalized copy suitable for embedding in a user
// document. The copy is detached: later changes to the role do not
// propagate to users holding the snapshot unless they are re-added.
// The document envelope is dropped: an embedded snapshot is not a
// document of its own and carries no revision.
func (r *Role) Snapshot() Role {
	snap := *r
	snap.Document = Document{}
	snap.Claims = append(Claims(nil), r.Claims...)
	return snap
}

// Roles is the set of role snapshots embedded in a user document,
// unique by normalized name. The snapshots are copies taken at
// assignment time, stale by design: renaming a role does not rewrite
// the user documents that hold the old snapshot.
type Roles []Role

// Add inserts the snapshot and reports whether the set grew.
func (r *Roles) Add(role Role) bool {
	if r.Contains(role.NormalizedName) {
		return false
	}
	*r = append(*r, role)
	return true
}

// Remove deletes the snapshot with the given normalized name and
// reports whether it was present.
func (r *Roles) Remove(normalizedName string) bool {
	for i, have := range *r {
		if have.NormalizedName == normalizedName {
			*r = append((*r)[:i], (*r)[i+1:]...)
			return true
		}
	}
	return false
}

func (r Roles) Contains(normalizedName string) bool {
	for _, have := range r {
		if have.NormalizedName == normalizedName {
			return true
		}
	}
	return false
}

// Names returns the display names of the embedded roles.
func (r Roles) Names() []string {
	names := make([]string, len(r))
	for i, have := range r {
		names[i] = have.Name
	}
	return names
}
