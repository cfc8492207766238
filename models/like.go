package models

// RoleLike is the capability set a role document must expose to be
// managed by a role store. *Role satisfies it directly; custom role
// types satisfy it by embedding Role, which carries both methods.
type RoleLike interface {
	Doc() *Document
	AsRole() *Role
}

// UserLike is the capability set a user document must expose to be
// managed by a user store. *User satisfies it directly; custom user
// types satisfy it by embedding User.
type UserLike interface {
	Doc() *Document
	AsUser() *User
}

// RolePtr constrains a store's role type to a pointer to T that
// exposes the RoleLike capabilities. Extra fields on T round-trip
// through the document JSON untouched by the store.
type RolePtr[T any] interface {
	*T
	RoleLike
}

// UserPtr is the user-side counterpart of RolePtr.
type UserPtr[T any] interface {
	*T
	UserLike
}
