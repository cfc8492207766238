package models

// User is a user document. Equality compares the normalized username
// only. As with roles, keeping NormalizedUserName in sync with the
// caller's normalization of UserName is the caller's job.
//
// The embedded Roles, Claims and Logins collections are mutated in
// memory by the store operations and only persisted with the next
// explicit update of the user document.
type User struct {
	Document

	UserName           string            `json:"username,omitempty"`
	NormalizedUserName string            `json:"normalized_username,omitempty"`
	Email              EmailInfo         `json:"email"`
	Phone              PhoneInfo         `json:"phone"`
	Password           PasswordInfo      `json:"password"`
	Lockout            LockoutInfo       `json:"lockout"`
	Authenticator      AuthenticatorInfo `json:"authenticator"`
	TwoFactorEnabled   bool              `json:"two_factor_enabled,omitempty"`
	Roles              Roles             `json:"roles,omitempty"`
	Claims             Claims            `json:"claims,omitempty"`
	Logins             Logins            `json:"logins,omitempty"`
}

// NewUser builds a User with NormalizedUserName derived via Normalize.
func NewUser(userName string) *User {
	return &User{UserName: userName, NormalizedUserName: Normalize(userName)}
}

// AsUser returns the base user data; see UserLike.
func (u *User) AsUser() *User { return u }

func (u *User) Equal(other *User) bool {
	return other != nil && u.NormalizedUserName == other.NormalizedUserName
}
