// Package acsign implements the ACS3-HMAC-SHA256 request signing protocol
// used to authenticate calls to Alibaba Cloud style RPC APIs.
//
// A signed request covers the HTTP method, the canonical URI, a canonical
// query string and a fixed set of six headers:
//
//	host
//	x-acs-action
//	x-acs-content-sha256
//	x-acs-date
//	x-acs-signature-nonce
//	x-acs-version
//
// The canonical request is hashed with SHA-256, prefixed with the algorithm
// name to form the string to sign, and signed with HMAC-SHA256 keyed by the
// access key secret. The result travels in the Authorization header:
//
//	ACS3-HMAC-SHA256 Credential=<id>,SignedHeaders=<names>,Signature=<hex>
//
// # Key Components
//
//   - PercentEncode: RFC 3986 unreserved-set encoding used for every key and value
//   - CanonicalQuery: deterministic, sorted query string
//   - Body, EncodeBody: JSON, form, binary and empty request bodies
//   - CanonicalRequest: the exact text that gets hashed and signed
//   - Signer: produces the signed header set for a Request
//   - Verifier: server-side check of a signed *http.Request
//
// # Example Usage
//
//	signer := acsign.NewSigner()
//	signed, err := signer.Sign(acsign.Request{
//	    Method:       http.MethodGet,
//	    Host:         "alidns.cn-hangzhou.aliyuncs.com",
//	    CanonicalURI: "/",
//	    Query:        acsign.Query{{Key: "RegionId", Value: "cn-hangzhou"}},
//	    Action:       "DescribeDomains",
//	    Version:      "2015-01-09",
//	}, acsign.Credentials{AccessKeyID: id, AccessKeySecret: secret})
//	if err != nil {
//	    return err
//	}
//	req.Header = signed.Header
//
// See the clientcli package for a client that signs and dispatches requests.
package acsign
