package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/acsign"
)

// Error codes returned in the Code field of error responses.
const (
	CodeMissingAuthorization = "MissingAuthorization"
	CodeInvalidAuthorization = "InvalidAuthorization"
	CodeInvalidAccessKeyID   = "InvalidAccessKeyId.NotFound"
	CodeSignatureMismatch    = "SignatureDoesNotMatch"
	CodeSignatureNonceUsed   = "SignatureNonceUsed"
	CodeTimestampExpired     = "InvalidTimeStamp.Expired"
	CodeContentHashMismatch  = "ContentSHA256Mismatch"
	CodeRequestTooLarge      = "RequestEntityTooLarge"
	CodeNotFound             = "InvalidApi.NotFound"
	CodeMethodNotAllowed     = "MethodNotAllowed"
	CodeInternalError        = "InternalError"
)

// ErrMissingAuthorization is returned when a request carries no Authorization header.
var ErrMissingAuthorization = errors.New("missing authorization")

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Order matters: the specific verifier errors also wrap acsign.ErrUnauthorized.
var errorMappings = []errorMapping{
	{ErrMissingAuthorization, http.StatusUnauthorized, CodeMissingAuthorization, "Authorization header is required."},
	{acsign.ErrInvalidAccessKey, http.StatusNotFound, CodeInvalidAccessKeyID, "Specified access key is not found."},
	{acsign.ErrSignatureMismatch, http.StatusBadRequest, CodeSignatureMismatch, "Specified signature is not matched with our calculation."},
	{acsign.ErrNonceReused, http.StatusBadRequest, CodeSignatureNonceUsed, "Specified signature nonce was used already."},
	{acsign.ErrRequestExpired, http.StatusBadRequest, CodeTimestampExpired, "Specified time stamp or date value is expired."},
	{acsign.ErrPayloadMismatch, http.StatusBadRequest, CodeContentHashMismatch, "Specified x-acs-content-sha256 does not match the body."},
	{acsign.ErrUnauthorized, http.StatusUnauthorized, CodeInvalidAuthorization, "Specified authorization is not valid."},
}

// HandleError writes the provider-style error response for err.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := RequestIDFromContext(r.Context())

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		WriteError(w, http.StatusRequestEntityTooLarge, requestID, CodeRequestTooLarge, "Request body is too large.")
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			slog.Debug("request rejected", "request_id", requestID, "code", m.code, "error", err)
			WriteError(w, m.status, requestID, m.code, m.message)
			return
		}
	}

	slog.Error("request error", "request_id", requestID, "error", err)
	WriteError(w, http.StatusInternalServerError, requestID, CodeInternalError, "The request processing has failed due to some unknown error.")
}
