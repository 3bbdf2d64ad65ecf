package acsign

import (
	"bytes"
	"context"
	"crypto/hmac"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxSkew is how far x-acs-date may drift from the verifier's clock.
const DefaultMaxSkew = 15 * time.Minute

// SecretStore resolves an access key id to its secret.
type SecretStore interface {
	Lookup(accessKeyID string) (string, error)
}

// NonceStore remembers signature nonces to reject replays. Remember reports
// false if the nonce was seen before.
type NonceStore interface {
	Remember(ctx context.Context, nonce string, seenAt time.Time) (bool, error)
}

// Verifier checks ACS3-HMAC-SHA256 signatures on incoming requests.
type Verifier struct {
	secrets       SecretStore
	nonces        NonceStore
	maxSkew       time.Duration
	verifyPayload bool
	now           func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithNonceStore enables replay protection.
func WithNonceStore(store NonceStore) VerifierOption {
	return func(v *Verifier) {
		v.nonces = store
	}
}

// WithMaxSkew sets the allowed clock drift. Zero or negative disables the check.
func WithMaxSkew(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.maxSkew = d
	}
}

// WithPayloadCheck compares x-acs-content-sha256 with the received body.
// Binary bodies are exempt since clients sign them with the empty-string hash.
func WithPayloadCheck() VerifierOption {
	return func(v *Verifier) {
		v.verifyPayload = true
	}
}

// WithVerifierClock sets the time source used for the skew check.
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier creates a Verifier backed by secrets.
func NewVerifier(secrets SecretStore, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		secrets: secrets,
		maxSkew: DefaultMaxSkew,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify authenticates r and returns the caller's access key id.
//
// The checks run in this order:
//  1. Authorization header is present and well formed
//  2. Signed headers are exactly the fixed six-header list
//  3. x-acs-date parses and is within the allowed skew
//  4. x-acs-signature-nonce has the expected shape
//  5. Access key exists
//  6. Payload hash matches the body (only with WithPayloadCheck)
//  7. Signature matches
//  8. Nonce was not used before (only with WithNonceStore)
func (v *Verifier) Verify(ctx context.Context, r *http.Request) (string, error) {
	auth, err := ParseAuthorization(r.Header.Get("Authorization"))
	if err != nil {
		return "", err
	}

	if auth.SignedHeaders != SignedHeaders {
		return "", fmt.Errorf("unexpected signed headers %q: %w", auth.SignedHeaders, ErrUnauthorized)
	}

	date := r.Header.Get(HeaderDate)
	requestTime, err := time.Parse(DateTimeFormat, date)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", HeaderDate, date, ErrUnauthorized)
	}
	if v.maxSkew > 0 {
		skew := v.now().Sub(requestTime)
		if skew > v.maxSkew || skew < -v.maxSkew {
			return "", fmt.Errorf("%s %s: %w: %w", HeaderDate, date, ErrRequestExpired, ErrUnauthorized)
		}
	}

	nonce := r.Header.Get(HeaderNonce)
	if !IsValidNonce(nonce) {
		return "", fmt.Errorf("invalid %s: %w", HeaderNonce, ErrUnauthorized)
	}

	secret, err := v.secrets.Lookup(auth.AccessKeyID)
	if err != nil {
		return "", fmt.Errorf("lookup %q: %w: %w", auth.AccessKeyID, ErrInvalidAccessKey, err)
	}

	payloadHash := r.Header.Get(HeaderContentSHA256)
	if v.verifyPayload && !isBinary(r.Header.Get("Content-Type")) {
		if err := checkPayload(r, payloadHash); err != nil {
			return "", err
		}
	}

	uri := r.URL.EscapedPath()
	if uri == "" {
		uri = "/"
	}

	query, err := ParseQuery(r.URL.RawQuery)
	if err != nil {
		return "", fmt.Errorf("parse query: %w", ErrUnauthorized)
	}

	canonical := NewCanonicalRequest(r.Method, uri, CanonicalQuery(query), HeaderValues{
		Host:        r.Host,
		Action:      r.Header.Get(HeaderAction),
		Version:     r.Header.Get(HeaderVersion),
		Date:        date,
		Nonce:       nonce,
		PayloadHash: payloadHash,
	})

	expected, err := ComputeSignature(secret, StringToSign(canonical.String()))
	if err != nil {
		return "", fmt.Errorf("%w: %w", err, ErrUnauthorized)
	}

	if !hmac.Equal([]byte(expected), []byte(auth.Signature)) {
		return "", fmt.Errorf("%w: %w", ErrSignatureMismatch, ErrUnauthorized)
	}

	if v.nonces != nil {
		fresh, err := v.nonces.Remember(ctx, nonce, requestTime)
		if err != nil {
			return "", fmt.Errorf("remember nonce: %w", err)
		}
		if !fresh {
			return "", fmt.Errorf("%s %s: %w", HeaderNonce, nonce, ErrNonceReused)
		}
	}

	return auth.AccessKeyID, nil
}

// Authorization is a parsed Authorization header.
type Authorization struct {
	AccessKeyID   string
	SignedHeaders string
	Signature     string
}

// ParseAuthorization parses an ACS3-HMAC-SHA256 Authorization header value.
func ParseAuthorization(value string) (Authorization, error) {
	if value == "" {
		return Authorization{}, fmt.Errorf("missing authorization header: %w", ErrUnauthorized)
	}

	algorithm, rest, ok := strings.Cut(value, " ")
	if !ok || algorithm != SignatureAlgorithm {
		return Authorization{}, fmt.Errorf("invalid algorithm: expected %s: %w", SignatureAlgorithm, ErrUnauthorized)
	}

	var auth Authorization
	for _, part := range strings.Split(rest, ",") {
		name, val, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return Authorization{}, fmt.Errorf("malformed authorization component %q: %w", part, ErrUnauthorized)
		}
		switch name {
		case "Credential":
			auth.AccessKeyID = val
		case "SignedHeaders":
			auth.SignedHeaders = val
		case "Signature":
			auth.Signature = val
		}
	}

	if auth.AccessKeyID == "" || auth.SignedHeaders == "" || auth.Signature == "" {
		return Authorization{}, fmt.Errorf("incomplete authorization header: %w", ErrUnauthorized)
	}

	return auth, nil
}

// ParseQuery decodes a raw query string into pairs, keeping their order.
func ParseQuery(raw string) (Query, error) {
	if raw == "" {
		return nil, nil
	}

	var q Query
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, val, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(val)
		if err != nil {
			return nil, err
		}
		q = append(q, Param{Key: key, Value: value})
	}
	return q, nil
}

func checkPayload(r *http.Request, claimed string) error {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	if hashBytes(body) != claimed {
		return fmt.Errorf("%w: %w", ErrPayloadMismatch, ErrUnauthorized)
	}
	return nil
}

func isBinary(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == ContentTypeBinary
}
