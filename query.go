package acsign

import (
	"sort"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters as supplied by the caller.
type Query []Param

// Get returns the last value stored under key, matching how the canonical
// query string resolves duplicates.
func (q Query) Get(key string) (string, bool) {
	for i := len(q) - 1; i >= 0; i-- {
		if q[i].Key == key {
			return q[i].Value, true
		}
	}
	return "", false
}

// Encode returns the query in caller order, each key and value percent-encoded.
// This is what goes on the wire; duplicates are kept.
func (q Query) Encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, PercentEncode(p.Key)+"="+PercentEncode(p.Value))
	}
	return strings.Join(parts, "&")
}

// CanonicalQuery builds the canonical query string.
//
// Keys are deduplicated with the last value winning, sorted bytewise, and each
// key and value is percent-encoded before the pairs are joined with '&'.
// An empty query yields "".
func CanonicalQuery(q Query) string {
	if len(q) == 0 {
		return ""
	}

	latest := make(map[string]string, len(q))
	for _, p := range q {
		latest[p.Key] = p.Value
	}

	keys := make([]string, 0, len(latest))
	for k := range latest {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(PercentEncode(k))
		b.WriteByte('=')
		b.WriteString(PercentEncode(latest[k]))
	}
	return b.String()
}
