package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// GenerateKey derives the canonical cache key for a raw query string:
// "<source>:<query>". Deterministic and order-sensitive, so the same query
// under different sources never collides.
func GenerateKey(query string, src Source) string {
	if src == "" {
		src = SourceOther
	}
	return string(src) + ":" + query
}

// QueryHash returns the first 16 hex characters of SHA-256(query). Callers
// use it to shorten keys derived from long text (embedding inputs, page
// bodies) before handing them to a store; stores always re-hash whatever key
// they receive for file addressing, so this is purely a key-shortening
// convention.
func QueryHash(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:8]) // first 8 bytes = 16 hex chars
}

// SourceFromKey recovers the source prefix from a GenerateKey-shaped key.
// Keys without a recognizable prefix map to SourceOther.
func SourceFromKey(key string) Source {
	if i := strings.IndexByte(key, ':'); i > 0 {
		if src := Source(key[:i]); src.Valid() {
			return src
		}
	}
	return SourceOther
}

// ValidateKey checks if a key is acceptable for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// Keyer generates deterministic cache keys from structured tool inputs.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from a source and an arbitrary input value.
	Key(src Source, input any) (string, error)
}

// DefaultKeyer generates SHA-256 based keys over a canonical JSON form of
// the input, keeping the source prefix so per-source stats attribution works.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
// Format: <source>:<hash> where hash is QueryHash of the canonical JSON input.
func (k *DefaultKeyer) Key(src Source, input any) (string, error) {
	canonical, err := canonicalize(input)
	if err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize input: %w", err)
	}
	return GenerateKey(QueryHash(string(canonical)), src), nil
}

// canonicalize produces a deterministic JSON representation of the input.
// Maps are sorted by key to ensure consistent ordering.
func canonicalize(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}

	switch val := v.(type) {
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
