package auth

import "context"

// User is the authenticated principal attached to a request.
type User struct {
	ID    string
	Email string
	Name  string
}

// SessionLookup resolves opaque session tokens to users.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
}
