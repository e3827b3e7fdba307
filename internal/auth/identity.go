package auth

import (
	"context"
	"strconv"
)

// Identity is the caller resolved for one request: either Anonymous or a
// registered user. The zero value is Anonymous.
type Identity struct {
	userID        int64
	authenticated bool
}

// Anonymous is the identity of callers without a bearer token. All anonymous
// callers share the same task pool.
var Anonymous = Identity{}

// User returns the identity of the registered user id.
func User(id int64) Identity {
	return Identity{userID: id, authenticated: true}
}

// IsAnonymous reports whether no user is attached to the identity.
func (i Identity) IsAnonymous() bool {
	return !i.authenticated
}

// UserID returns the user id and whether the identity is authenticated.
func (i Identity) UserID() (int64, bool) {
	return i.userID, i.authenticated
}

// Owner returns the value stored in owner columns: nil for Anonymous.
func (i Identity) Owner() *int64 {
	if !i.authenticated {
		return nil
	}
	id := i.userID
	return &id
}

// Key names the owner scope, e.g. "anon" or "user:42".
func (i Identity) Key() string {
	if !i.authenticated {
		return "anon"
	}
	return "user:" + strconv.FormatInt(i.userID, 10)
}

func (i Identity) String() string {
	return i.Key()
}

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the identity stored by the Gate middleware, or
// Anonymous when none is present.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}
