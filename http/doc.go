// Package http implements a mock ACS3 API gateway.
//
// The gateway verifies ACS3-HMAC-SHA256 signatures on every call and answers
// with a JSON echo of what it received, which makes it a convenient target
// for exercising signing clients end to end.
//
// # Routes
//
//   - GET /healthz: liveness probe, never authenticated
//   - GET|POST|PUT|DELETE /*: authenticated echo
//
// # Responses
//
// Successful calls return an EchoResponse:
//
//	{"RequestId":"...","Action":"DescribeDomains","Version":"2015-01-09",
//	 "Method":"GET","Path":"/","Query":{},"BodyLength":0}
//
// Failures use the provider's error document:
//
//	{"RequestId":"...","Code":"SignatureDoesNotMatch","Message":"..."}
//
// Every response carries the request id in the x-acs-request-id header.
//
// # Usage
//
//	verifier := acsign.NewVerifier(secrets, acsign.WithNonceStore(nonces))
//	handler := http.NewHandler(&http.HandlerConfig{Verifier: verifier})
//	srv := &nethttp.Server{Addr: ":8080", Handler: handler.Router()}
package http
