// Package session holds the signed-in person's credentials as an explicit
// value. The session is created on login, persisted to disk, carried through
// request-scoped contexts, and torn down on logout or on the first 401.
package session

import (
	"context"

	"github.com/kartel/whygo/internal/whygo"
)

// Session is the persisted sign-in state. The four fields are always saved
// and cleared together.
type Session struct {
	Token       string      `json:"auth_token"`
	PersonID    string      `json:"person_id"`
	PersonName  string      `json:"person_name"`
	PersonLevel whygo.Level `json:"person_level"`
}

// Keys lists the persisted keys of a session.
func Keys() []string {
	return []string{"auth_token", "person_id", "person_name", "person_level"}
}

// Valid reports whether the session carries a token and a person.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.PersonID != ""
}

// Capabilities returns the leadership features of the session's level.
func (s *Session) Capabilities() whygo.Capabilities {
	if s == nil {
		return whygo.Capabilities{}
	}
	return whygo.CapabilitiesFor(s.PersonLevel)
}

type ctxKey struct{}

// NewContext returns a child context carrying sess.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session carried by ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok && sess != nil
}
