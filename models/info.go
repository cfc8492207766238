package models

import "time"

// EmailInfo carries a user's email address, its normalized lookup key
// and the confirmation flag. Equality compares the normalized address
// only.
type EmailInfo struct {
	Address    string `json:"address,omitempty"`
	Normalized string `json:"normalized,omitempty"`
	Confirmed  bool   `json:"confirmed,omitempty"`
}

// NewEmail builds an EmailInfo normalizing the address with Normalize.
func NewEmail(address string) EmailInfo {
	return EmailInfo{Address: address, Normalized: Normalize(address)}
}

func (e EmailInfo) Equal(other EmailInfo) bool {
	return e.Normalized == other.Normalized
}

// PhoneInfo carries a user's phone number and its confirmation flag.
type PhoneInfo struct {
	Number    string `json:"number,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

func (p PhoneInfo) Equal(other PhoneInfo) bool {
	return p.Number == other.Number
}

// PasswordInfo holds the salted password hash and the security stamp: a
// random value that must change whenever the user's credentials change
// (password changed, login removed). Hashing happens upstream; the
// store only ferries the values.
type PasswordInfo struct {
	Hash string `json:"hash,omitempty"`
	Salt string `json:"salt,omitempty"`
}

// LockoutInfo tracks failed sign-in attempts and the lockout window.
// An End in the past means the user is not locked out.
type LockoutInfo struct {
	AccessFailedCount int        `json:"access_failed_count,omitempty"`
	Enabled           bool       `json:"enabled,omitempty"`
	End               *time.Time `json:"end,omitempty"`
}

// AuthenticatorInfo holds the user's authenticator key.
type AuthenticatorInfo struct {
	Key string `json:"key,omitempty"`
}
