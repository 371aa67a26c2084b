package shared

import (
	"context"
	"net/http"
)

type sessionKey struct{}

// ContextWithSession attaches the request session.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the request session or nil.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey{}).(*Session)
	return sess
}

// RequestSession is SessionFromContext for a request.
func RequestSession(r *http.Request) *Session {
	return SessionFromContext(r.Context())
}
