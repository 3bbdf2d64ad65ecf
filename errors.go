package acsign

import "errors"

// Failure kinds of the signing and dispatch pipeline. Every error returned by
// this module wraps exactly one of them, so callers can tell transient
// transport failures from permanent configuration problems with errors.Is.
var (
	// ErrClock is returned when the wall clock reads a time before the Unix epoch.
	ErrClock = errors.New("clock error")
	// ErrSigningKey is returned when the secret cannot be used as an HMAC key.
	ErrSigningKey = errors.New("signing key error")
	// ErrRequestBuild is returned when the outbound request cannot be assembled.
	ErrRequestBuild = errors.New("request build error")
	// ErrTransport is returned when the HTTP round trip fails.
	ErrTransport = errors.New("transport error")
	// ErrNonUTF8Response is returned when a response body is not valid UTF-8.
	ErrNonUTF8Response = errors.New("response body is not valid utf-8")
)

var (
	// ErrUnauthorized is returned by the Verifier when a request fails authentication.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNonceReused is returned by the Verifier when a signature nonce was already seen.
	ErrNonceReused = errors.New("signature nonce already used")
)

// Reasons a request can fail verification. Each is reported together with
// ErrUnauthorized.
var (
	ErrInvalidAccessKey  = errors.New("invalid access key")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrRequestExpired    = errors.New("request time outside allowed skew")
	ErrPayloadMismatch   = errors.New("payload hash mismatch")
)
