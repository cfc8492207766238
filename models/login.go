package models

// LoginInfo is one external login attached to a user document. The
// (Provider, Key) pair identifies the login; the display name carries
// no identity.
type LoginInfo struct {
	Provider    string `json:"provider"`
	Key         string `json:"key"`
	DisplayName string `json:"display_name,omitempty"`
}

func (l LoginInfo) Equal(other LoginInfo) bool {
	return l.Provider == other.Provider && l.Key == other.Key
}

// Logins is a set of LoginInfo unique by (provider, key).
type Logins []LoginInfo

// Add inserts the login and reports whether the set grew.
func (l *Logins) Add(login LoginInfo) bool {
	if _, ok := l.Find(login.Provider, login.Key); ok {
		return false
	}
	*l = append(*l, login)
	return true
}

// Remove deletes the login with the given provider and key and reports
// whether it was present.
func (l *Logins) Remove(provider, key string) bool {
	for i, have := range *l {
		if have.Provider == provider && have.Key == key {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

func (l Logins) Find(provider, key string) (LoginInfo, bool) {
	for _, have := range l {
		if have.Provider == provider && have.Key == key {
			return have, true
		}
	}
	return LoginInfo{}, false
}
