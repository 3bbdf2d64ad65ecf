package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/sagarc03/acsign"
)

// DefaultScheme is the scheme used to reach API hosts.
const DefaultScheme = "https"

// Client signs and dispatches API calls.
//
// A Client is safe for concurrent use; every call builds its canonical
// request, nonce and headers from scratch.
type Client struct {
	httpClient *http.Client
	signer     *acsign.Signer
	creds      acsign.Credentials
	scheme     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for dispatch. Timeouts, proxies
// and TLS settings all come from it.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithScheme overrides DefaultScheme, e.g. "http" for a local gateway.
func WithScheme(scheme string) Option {
	return func(c *Client) {
		c.scheme = scheme
	}
}

// WithSigner sets the signer, e.g. one with a fixed clock in tests.
func WithSigner(signer *acsign.Signer) Option {
	return func(c *Client) {
		c.signer = signer
	}
}

// New creates a Client from cfg. Credentials are required.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.ValidateWithAuth(); err != nil {
		return nil, err
	}

	scheme := cfg.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}

	c := &Client{
		httpClient: http.DefaultClient,
		signer:     acsign.NewSigner(),
		creds: acsign.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			AccessKeySecret: cfg.AccessKeySecret,
		},
		scheme: scheme,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Sign signs req without sending it.
func (c *Client) Sign(req acsign.Request) (*acsign.SignedRequest, error) {
	return c.signer.Sign(req, c.creds)
}

// Do signs req, sends it once and reads the response.
//
// A non-2xx status is not an error here; use Response.Err to turn one into
// an *APIError.
func (c *Client) Do(ctx context.Context, req acsign.Request) (*Response, error) {
	signed, err := c.signer.Sign(req, c.creds)
	if err != nil {
		return nil, err
	}

	httpReq, err := c.newHTTPRequest(ctx, req, signed)
	if err != nil {
		return nil, err
	}

	slog.Debug("dispatching signed request",
		"method", httpReq.Method,
		"host", signed.Host,
		"action", req.Action,
		"version", req.Version,
		"nonce", signed.Header.Get(acsign.HeaderNonce),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w: %w", acsign.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result, err := ReadResponse(resp)
	if err != nil {
		return nil, err
	}

	slog.Debug("received response", "action", req.Action, "status", result.StatusCode, "bytes", len(result.Body))
	return result, nil
}

// Call performs req and returns the response body text, whatever the status.
func (c *Client) Call(ctx context.Context, req acsign.Request) (string, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Body, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req acsign.Request, signed *acsign.SignedRequest) (*http.Request, error) {
	uri := signed.CanonicalRequest.URI
	target := c.scheme + "://" + signed.Host + uri
	if q := req.Query.Encode(); q != "" {
		target += "?" + q
	}

	var body io.Reader = http.NoBody
	if len(signed.Payload) > 0 {
		body = bytes.NewReader(signed.Payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, signed.CanonicalRequest.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w: %w", acsign.ErrRequestBuild, err)
	}

	httpReq.Host = signed.Host
	httpReq.Header = signed.Header.Clone()

	return httpReq, nil
}

// Response is the status and text body of an API response.
type Response struct {
	StatusCode int
	Body       string
}

// ReadResponse reads the whole body of resp and checks it is valid UTF-8.
// It does not close the body.
func ReadResponse(resp *http.Response) (*Response, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w: %w", acsign.ErrTransport, err)
	}

	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read response (status %d): %w", resp.StatusCode, acsign.ErrNonUTF8Response)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}, nil
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns nil for 2xx responses and an *APIError otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return parseServerError(r.StatusCode, r.Body)
}

// parseServerError decodes the provider's {"RequestId","Code","Message"}
// error document when present.
func parseServerError(statusCode int, body string) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       body,
	}

	var doc struct {
		RequestID string `json:"RequestId"`
		Code      string `json:"Code"`
		Message   string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(body), &doc); err == nil {
		apiErr.RequestID = doc.RequestID
		apiErr.Code = doc.Code
		apiErr.Message = doc.Message
	}

	return apiErr
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	RequestID  string
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return "api error: " + strconv.Itoa(e.StatusCode) + " " + e.Code + ": " + e.Message
	}
	return "api error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when the signature is rejected (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrForbidden is returned when the credentials lack permission (403).
	ErrForbidden = &APIError{StatusCode: http.StatusForbidden}
)
