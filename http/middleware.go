package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request id on every response.
const HeaderRequestID = "x-acs-request-id"

// RequestVerifier authenticates a request and returns the caller's access key id.
type RequestVerifier interface {
	Verify(ctx context.Context, r *http.Request) (string, error)
}

type (
	requestIDKey   struct{}
	accessKeyIDKey struct{}
)

// RequestIDFromContext returns the id assigned by RequestIDMiddleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// AccessKeyIDFromContext returns the access key id of an authenticated caller, or "".
func AccessKeyIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(accessKeyIDKey{}).(string)
	return id
}

// RequestIDMiddleware assigns each request an uppercase UUID and echoes it in
// the x-acs-request-id response header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := newRequestID()
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// AuthMiddleware rejects requests that fail signature verification.
// Pass nil to disable authentication.
func AuthMiddleware(verifier RequestVerifier) func(http.Handler) http.Handler {
	if verifier == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				HandleError(w, r, ErrMissingAuthorization)
				return
			}

			accessKeyID, err := verifier.Verify(r.Context(), r)
			if err != nil {
				HandleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), accessKeyIDKey{}, accessKeyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MaxBodyMiddleware caps request bodies at limit bytes. Zero means no limit.
func MaxBodyMiddleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func newRequestID() string {
	return strings.ToUpper(uuid.New().String())
}
