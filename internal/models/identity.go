package models

// Identity is the per-request authentication snapshot: either anonymous or a
// loaded user. It is rebuilt once per inbound request and never persisted.
type Identity struct {
	User *User `json:"user,omitempty"`
}

// Anonymous returns an identity with no user attached
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns an identity for the given user
func Authenticated(user *User) Identity {
	return Identity{User: user}
}

// IsAuthenticated returns true if a user is attached
func (i Identity) IsAuthenticated() bool {
	return i.User != nil
}
