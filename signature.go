package acsign

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Credentials identify the caller. The secret is only ever used as the HMAC
// key and is never transmitted.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
}

// Request describes an API call to be signed.
type Request struct {
	Method string
	Host   string
	// CanonicalURI must already be percent-encoded. RPC style APIs use "/".
	CanonicalURI string
	Query        Query
	Action       string
	Version      string
	Body         Body
}

// SignedRequest is the result of signing a Request.
type SignedRequest struct {
	// Header holds every header to send except Host, which net/http carries
	// in (*http.Request).Host.
	Header  http.Header
	Host    string
	Payload []byte

	CanonicalRequest CanonicalRequest
	StringToSign     string
	Signature        string
	Authorization    string
}

// Signer signs requests with ACS3-HMAC-SHA256.
//
// A Signer holds no per-call state and is safe for concurrent use.
type Signer struct {
	now               func() time.Time
	nonce             func() string
	hashBinaryPayload bool
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithClock sets the time source used for x-acs-date.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = now
	}
}

// WithNonceSource sets the generator used for x-acs-signature-nonce.
func WithNonceSource(nonce func() string) SignerOption {
	return func(s *Signer) {
		s.nonce = nonce
	}
}

// WithBinaryPayloadHash makes binary bodies hash their actual bytes instead
// of the empty string.
func WithBinaryPayloadHash() SignerOption {
	return func(s *Signer) {
		s.hashBinaryPayload = true
	}
}

// NewSigner creates a Signer that reads the system clock and generates
// random nonces.
func NewSigner(opts ...SignerOption) *Signer {
	s := &Signer{
		now:   time.Now,
		nonce: NewNonce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign serializes the body, builds the canonical request and computes the
// Authorization header for req.
func (s *Signer) Sign(req Request, creds Credentials) (*SignedRequest, error) {
	if req.Method == "" {
		return nil, fmt.Errorf("method is required: %w", ErrRequestBuild)
	}
	if req.Host == "" {
		return nil, fmt.Errorf("host is required: %w", ErrRequestBuild)
	}
	uri := req.CanonicalURI
	if uri == "" {
		uri = "/"
	}

	now := s.now()
	if now.Before(time.Unix(0, 0)) {
		return nil, fmt.Errorf("current time %s is before the unix epoch: %w", now, ErrClock)
	}

	body, err := EncodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	payloadHash := HashPayload(body.Content)
	if _, binary := req.Body.(BinaryBody); binary && s.hashBinaryPayload {
		payloadHash = hashBytes(body.Payload)
	}

	values := HeaderValues{
		Host:        req.Host,
		Action:      req.Action,
		Version:     req.Version,
		Date:        FormatDate(now),
		Nonce:       s.nonce(),
		PayloadHash: payloadHash,
	}
	canonical := NewCanonicalRequest(strings.ToUpper(req.Method), uri, CanonicalQuery(req.Query), values)

	stringToSign := StringToSign(canonical.String())
	signature, err := ComputeSignature(creds.AccessKeySecret, stringToSign)
	if err != nil {
		return nil, err
	}
	authorization := FormatAuthorization(creds.AccessKeyID, canonical.SignedHeaders, signature)

	header := make(http.Header, len(SignedHeaderNames)+1)
	for _, h := range canonical.Headers {
		if h.Name == HeaderHost {
			continue
		}
		header.Set(h.Name, h.Value)
	}
	header.Set("Authorization", authorization)
	if body.ContentType != "" {
		header.Set("Content-Type", body.ContentType)
	}

	return &SignedRequest{
		Header:           header,
		Host:             req.Host,
		Payload:          body.Payload,
		CanonicalRequest: canonical,
		StringToSign:     stringToSign,
		Signature:        signature,
		Authorization:    authorization,
	}, nil
}

// StringToSign returns the algorithm name and the hex SHA-256 of the
// canonical request, separated by a newline.
func StringToSign(canonicalRequest string) string {
	return SignatureAlgorithm + "\n" + HashPayload(canonicalRequest)
}

// ComputeSignature returns the lowercase hex HMAC-SHA256 of stringToSign
// keyed by secret. An empty secret is a valid HMAC key.
func ComputeSignature(secret, stringToSign string) (string, error) {
	mac, err := hmacSHA256([]byte(secret), []byte(stringToSign))
	if err != nil {
		return "", fmt.Errorf("compute hmac: %w: %w", ErrSigningKey, err)
	}
	return hex.EncodeToString(mac), nil
}

// FormatAuthorization renders the Authorization header value.
func FormatAuthorization(accessKeyID, signedHeaders, signature string) string {
	return fmt.Sprintf("%s Credential=%s,SignedHeaders=%s,Signature=%s",
		SignatureAlgorithm, accessKeyID, signedHeaders, signature)
}
