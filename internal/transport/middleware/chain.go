package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain folds several middleware into one. Ordering follows the argument
// list: Chain(outer, inner)(h) yields outer(inner(h)), so the first
// middleware sees the request first. Used to build the per-group stacks
// (signature verification before rate limiting, auth before role checks).
func Chain(mws ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
