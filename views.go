package identity

// View addresses one precomputed secondary index: a view inside a
// design document maintained by the database.
type View struct {
	Design string
	Name   string
}

// Zero reports whether the view descriptor is unset.
func (v View) Zero() bool {
	return v == View{}
}

// Views is the table mapping every lookup the stores perform to a
// physical view. The database must contain all of them; replacing an
// entry only changes which view is queried, the query contract stays
// the same.
//
// Row contracts (reduce=false unless noted):
//
//	User                    key = id, value = rev; reduce=true yields a count
//	UserNormalizedUserName  key = normalized username, value = rev
//	UserNormalizedEmail     key = normalized email, value = rev
//	UserRoles               key = embedded role normalized name, value = rev
//	UserClaims              key = [claim type, claim value], value = rev
//	UserLogins              key = [login provider, provider key], value = rev
//	Role                    key = id, value = rev; reduce=true yields a count
//	RoleNormalizedName      key = normalized role name, value = rev
type Views struct {
	User                   View
	UserNormalizedUserName View
	UserNormalizedEmail    View
	UserRoles              View
	UserClaims             View
	UserLogins             View
	Role                   View
	RoleNormalizedName     View
}

// DefaultDesign is the design document holding the default views.
const DefaultDesign = "identity"

// DefaultViews returns the view table the stores use unless Options
// overrides it.
func DefaultViews() Views {
	return Views{
		User:                   View{DefaultDesign, "user"},
		UserNormalizedUserName: View{DefaultDesign, "user.normalized_username"},
		UserNormalizedEmail:    View{DefaultDesign, "user.normalized_email"},
		UserRoles:              View{DefaultDesign, "user.roles.normalized_name"},
		UserClaims:             View{DefaultDesign, "user.claims"},
		UserLogins:             View{DefaultDesign, "user.logins"},
		Role:                   View{DefaultDesign, "role"},
		RoleNormalizedName:     View{DefaultDesign, "role.normalized_name"},
	}
}

// loadDefaults fills unset entries with their defaults.
func (v *Views) loadDefaults() {
	def := DefaultViews()
	fill := func(dst *View, d View) {
		if dst.Zero() {
			*dst = d
		}
	}
	fill(&v.User, def.User)
	fill(&v.UserNormalizedUserName, def.UserNormalizedUserName)
	fill(&v.UserNormalizedEmail, def.UserNormalizedEmail)
	fill(&v.UserRoles, def.UserRoles)
	fill(&v.UserClaims, def.UserClaims)
	fill(&v.UserLogins, def.UserLogins)
	fill(&v.Role, def.Role)
	fill(&v.RoleNormalizedName, def.RoleNormalizedName)
}
