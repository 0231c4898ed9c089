package cache

import "errors"

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Key validation errors.
var (
	// ErrInvalidKey indicates the key is empty, blank, or contains control characters.
	ErrInvalidKey = errors.New("cache: key is invalid")

	// ErrKeyTooLong indicates the key exceeds MaxKeyLength.
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Configuration errors.
var (
	// ErrInvalidMaxEntries indicates Config.MaxEntries is negative.
	ErrInvalidMaxEntries = errors.New("cache: max entries must not be negative")

	// ErrInvalidMaxSize indicates Config.MaxSizeBytes is negative.
	ErrInvalidMaxSize = errors.New("cache: max size bytes must not be negative")

	// ErrInvalidTTL indicates a configured TTL is negative.
	ErrInvalidTTL = errors.New("cache: ttl must not be negative")
)

// Middleware errors.
var (
	// ErrNilStore indicates a nil Store was provided.
	ErrNilStore = errors.New("cache: store is nil")

	// ErrNilExecutor indicates a nil executor was provided.
	ErrNilExecutor = errors.New("cache: executor is nil")
)
