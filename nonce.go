package acsign

import (
	"crypto/rand"
)

// NonceLength is the length of a signature nonce.
const NonceLength = 32

const nonceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// nonceRejectAbove is the largest multiple of len(nonceAlphabet) that fits in
// a byte. Bytes at or above it are discarded so every character is equally
// likely.
const nonceRejectAbove = 256 - 256%len(nonceAlphabet)

// NewNonce returns a random 32-character nonce drawn uniformly from [A-Z0-9].
func NewNonce() string {
	out := make([]byte, 0, NonceLength)
	buf := make([]byte, NonceLength*2)
	for len(out) < NonceLength {
		// crypto/rand.Read never returns an error on supported platforms.
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= nonceRejectAbove {
				continue
			}
			out = append(out, nonceAlphabet[int(b)%len(nonceAlphabet)])
			if len(out) == NonceLength {
				break
			}
		}
	}
	return string(out)
}

// IsValidNonce reports whether s has the shape of a signature nonce.
func IsValidNonce(s string) bool {
	if len(s) != NonceLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
