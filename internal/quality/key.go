package quality

import (
	"crypto/sha256"
	"encoding/hex"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// KeyLength is the number of hex characters in a cache key.
const KeyLength = 12

// rawBytes stands in for a string that is not valid UTF-8. JSON encoders
// replace invalid bytes with U+FFFD, which would make distinct values
// serialize identically.
type rawBytes struct {
	Hex string `json:"hex"`
}

func canonicalString(s string) any {
	if utf8.ValidString(s) {
		return s
	}
	return rawBytes{Hex: hex.EncodeToString([]byte(s))}
}

// Canonical returns the deterministic serialization of the non-session
// attributes of d: a JSON array of [name, value] pairs sorted by name.
// Two descriptors with the same non-session pairs serialize to identical
// bytes regardless of how they were built, and descriptors that differ in
// any non-session pair never do. Strings that are not valid UTF-8 appear
// as {"hex": "..."} objects.
func Canonical(d Descriptor) []byte {
	pairs := make([][2]any, 0, len(d))
	for _, k := range d.Keys() {
		if k.IsSession() {
			continue
		}
		pairs = append(pairs, [2]any{canonicalString(string(k)), canonicalString(d[k])})
	}

	b, err := json.Marshal(pairs)
	if err != nil {
		// Strings and rawBytes always encode; keep the function total anyway.
		return []byte("[]")
	}
	return b
}

// CacheKey returns the 12 character lowercase hex fingerprint of d.
// Descriptors that differ only in session attributes share a key.
func CacheKey(d Descriptor) string {
	sum := sha256.Sum256(Canonical(d))
	return hex.EncodeToString(sum[:])[:KeyLength]
}

// Equal reports whether a and b produce the same transcoded output, i.e.
// whether their cache keys match.
func Equal(a, b Descriptor) bool {
	return CacheKey(a) == CacheKey(b)
}
