package acsign

import (
	"net/url"
	"strings"
)

// PercentEncode encodes s so that only RFC 3986 unreserved characters
// (letters, digits, '-', '_', '.', '~') stay literal. Every other byte becomes
// %XX with uppercase hex digits.
//
// It must be applied to a query key and its value separately, never to a
// joined "key=value" pair.
func PercentEncode(s string) string {
	// QueryEscape keeps exactly the unreserved set and writes a space as '+'.
	// A literal '+' in s is already %2B at this point, so the swap is safe.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
