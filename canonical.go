package acsign

import (
	"strings"
	"time"
)

const (
	// SignatureAlgorithm names the signing scheme in the string to sign and
	// the Authorization header.
	SignatureAlgorithm = "ACS3-HMAC-SHA256"
	// DateTimeFormat is the layout of the x-acs-date header.
	DateTimeFormat = "2006-01-02T15:04:05Z"
)

// Names of the signed headers.
const (
	HeaderHost          = "host"
	HeaderAction        = "x-acs-action"
	HeaderContentSHA256 = "x-acs-content-sha256"
	HeaderDate          = "x-acs-date"
	HeaderNonce         = "x-acs-signature-nonce"
	HeaderVersion       = "x-acs-version"
)

// SignedHeaderNames lists the signed headers in canonical order.
var SignedHeaderNames = []string{
	HeaderHost,
	HeaderAction,
	HeaderContentSHA256,
	HeaderDate,
	HeaderNonce,
	HeaderVersion,
}

// SignedHeaders is SignedHeaderNames joined with ';'.
var SignedHeaders = strings.Join(SignedHeaderNames, ";")

// Header is a lowercase header name and its value.
type Header struct {
	Name  string
	Value string
}

// CanonicalRequest holds the parts of a request covered by the signature.
type CanonicalRequest struct {
	Method        string
	URI           string
	Query         string
	Headers       []Header
	SignedHeaders string
	PayloadHash   string
}

// HeaderValues are the caller supplied and generated values of the signed headers.
type HeaderValues struct {
	Host        string
	Action      string
	Version     string
	Date        string
	Nonce       string
	PayloadHash string
}

// NewCanonicalRequest builds a canonical request with the fixed six-header set.
func NewCanonicalRequest(method, uri, canonicalQuery string, v HeaderValues) CanonicalRequest {
	return CanonicalRequest{
		Method: method,
		URI:    uri,
		Query:  canonicalQuery,
		Headers: []Header{
			{Name: HeaderHost, Value: v.Host},
			{Name: HeaderAction, Value: v.Action},
			{Name: HeaderContentSHA256, Value: v.PayloadHash},
			{Name: HeaderDate, Value: v.Date},
			{Name: HeaderNonce, Value: v.Nonce},
			{Name: HeaderVersion, Value: v.Version},
		},
		SignedHeaders: SignedHeaders,
		PayloadHash:   v.PayloadHash,
	}
}

// String renders the canonical request:
//
//	METHOD
//	URI
//	QUERY
//	name:value   (one line per header)
//
//	SIGNED_HEADERS
//	PAYLOAD_HASH
func (c CanonicalRequest) String() string {
	var b strings.Builder
	b.WriteString(c.Method)
	b.WriteByte('\n')
	b.WriteString(c.URI)
	b.WriteByte('\n')
	b.WriteString(c.Query)
	b.WriteByte('\n')
	for _, h := range c.Headers {
		b.WriteString(h.Name)
		b.WriteByte(':')
		b.WriteString(h.Value)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(c.SignedHeaders)
	b.WriteByte('\n')
	b.WriteString(c.PayloadHash)
	return b.String()
}

// FormatDate formats t as an x-acs-date value.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateTimeFormat)
}
