package middleware

import (
	"context"
	"net/http"
	"strings"
)

type callerKey struct{}

// Identity copies the caller id set by the upstream auth gateway into the
// request context. A missing header leaves the request anonymous.
func Identity(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(header))
			if id != "" {
				r = r.WithContext(WithCallerID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithCallerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// CallerID returns "" for anonymous requests.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(callerKey{}).(string)
	return id
}
