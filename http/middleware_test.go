package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/acsign"
	acshttp "github.com/sagarc03/acsign/http"
)

type stubVerifier struct {
	id  string
	err error
}

func (s stubVerifier) Verify(context.Context, *http.Request) (string, error) {
	return s.id, s.err
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(acshttp.AccessKeyIDFromContext(r.Context())))
}

func TestAuthMiddleware_PublicAccess(t *testing.T) {
	wrapped := acshttp.AuthMiddleware(nil)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAuthMiddleware_MissingAuthorization(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
	wrapped := acshttp.AuthMiddleware(stubVerifier{id: "id"})(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, acshttp.CodeMissingAuthorization, decodeError(t, rec).Code)
}

func TestAuthMiddleware_Rejected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
	verifier := stubVerifier{err: errors.Join(acsign.ErrSignatureMismatch, acsign.ErrUnauthorized)}
	wrapped := acshttp.AuthMiddleware(verifier)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "ACS3-HMAC-SHA256 Credential=id,SignedHeaders=host,Signature=00")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, acshttp.CodeSignatureMismatch, decodeError(t, rec).Code)
}

func TestAuthMiddleware_Accepted(t *testing.T) {
	wrapped := acshttp.AuthMiddleware(stubVerifier{id: "LTAI5tCaller"})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "ACS3-HMAC-SHA256 Credential=LTAI5tCaller,SignedHeaders=host,Signature=00")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LTAI5tCaller", rec.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	wrapped := acshttp.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = acshttp.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(acshttp.HeaderRequestID)
	assert.Equal(t, seen, header)
	assert.Equal(t, strings.ToUpper(header), header)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, acshttp.RequestIDFromContext(context.Background()))
	assert.Empty(t, acshttp.AccessKeyIDFromContext(context.Background()))
}

func TestMaxBodyMiddleware(t *testing.T) {
	read := func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for {
			_, err := r.Body.Read(buf)
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
				}
				return
			}
		}
	}

	t.Run("within limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		acshttp.MaxBodyMiddleware(10)(http.HandlerFunc(read)).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/", strings.NewReader("12345")))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("over limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		acshttp.MaxBodyMiddleware(10)(http.HandlerFunc(read)).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100))))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("no limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		acshttp.MaxBodyMiddleware(0)(http.HandlerFunc(read)).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100))))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
