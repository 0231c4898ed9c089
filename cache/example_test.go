package cache_test

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/toolcache/cache"
)

func ExampleGenerateKey() {
	fmt.Println(cache.GenerateKey("golang generics", cache.SourceSearch))
	fmt.Println(cache.GenerateKey("https://example.com/docs", cache.SourceVisit))

	// Empty source falls back to other
	fmt.Println(cache.GenerateKey("misc", ""))
	// Output:
	// search:golang generics
	// visit:https://example.com/docs
	// other:misc
}

func ExampleSourceFromKey() {
	fmt.Println(cache.SourceFromKey("search:golang generics"))
	fmt.Println(cache.SourceFromKey("embedding:abc123"))
	fmt.Println(cache.SourceFromKey("no-prefix"))
	// Output:
	// search
	// embedding
	// other
}

func ExampleNewDefaultKeyer() {
	keyer := cache.NewDefaultKeyer()

	// Deterministic - same input produces same key
	key1, _ := keyer.Key(cache.SourceSearch, map[string]any{"query": "test"})
	key2, _ := keyer.Key(cache.SourceSearch, map[string]any{"query": "test"})
	fmt.Println("Prefix:", key1[:strings.IndexByte(key1, ':')])
	fmt.Println("Keys match:", key1 == key2)

	// Different input produces different key
	key3, _ := keyer.Key(cache.SourceSearch, map[string]any{"query": "other"})
	fmt.Println("Different input, different key:", key1 != key3)
	// Output:
	// Prefix: search
	// Keys match: true
	// Different input, different key: true
}

func ExampleDefaultKeyer_Key_mapOrdering() {
	keyer := cache.NewDefaultKeyer()

	// Map ordering doesn't affect key - keys are sorted internally
	input1 := map[string]any{"b": 2, "a": 1, "c": 3}
	input2 := map[string]any{"c": 3, "a": 1, "b": 2}

	key1, _ := keyer.Key(cache.SourceAnalysis, input1)
	key2, _ := keyer.Key(cache.SourceAnalysis, input2)

	fmt.Println("Same map, different order, same key:", key1 == key2)
	// Output:
	// Same map, different order, same key: true
}

func ExampleDefaultSkipRule() {
	// Unsafe tags
	fmt.Println("write tag:", cache.DefaultSkipRule(cache.SourceOther, []string{"write"}))
	fmt.Println("danger tag:", cache.DefaultSkipRule(cache.SourceOther, []string{"danger"}))
	fmt.Println("UNSAFE tag (case-insensitive):", cache.DefaultSkipRule(cache.SourceOther, []string{"UNSAFE"}))

	// Safe tags
	fmt.Println("read tag:", cache.DefaultSkipRule(cache.SourceOther, []string{"read"}))
	// Output:
	// write tag: true
	// danger tag: true
	// UNSAFE tag (case-insensitive): true
	// read tag: false
}

func ExampleValidateKey() {
	// Valid keys
	fmt.Println("normal key:", cache.ValidateKey("search:golang generics") == nil)
	fmt.Println("with colons:", cache.ValidateKey("visit:https://example.com") == nil)

	// Invalid keys
	fmt.Println("empty:", errors.Is(cache.ValidateKey(""), cache.ErrInvalidKey))
	fmt.Println("whitespace:", errors.Is(cache.ValidateKey("   "), cache.ErrInvalidKey))
	fmt.Println("with newline:", errors.Is(cache.ValidateKey("key\nvalue"), cache.ErrInvalidKey))

	// Too long
	longKey := strings.Repeat("x", 600)
	fmt.Println("too long:", errors.Is(cache.ValidateKey(longKey), cache.ErrKeyTooLong))
	// Output:
	// normal key: true
	// with colons: true
	// empty: true
	// whitespace: true
	// with newline: true
	// too long: true
}

func ExampleConfig_TTLFor() {
	cfg := cache.DefaultConfig()

	// Per-source TTL
	fmt.Println("search:", cfg.TTLFor(cache.SourceSearch, 0))
	fmt.Println("visit:", cfg.TTLFor(cache.SourceVisit, 0))
	fmt.Println("embedding:", cfg.TTLFor(cache.SourceEmbedding, 0))

	// Explicit override wins
	fmt.Println("override:", cfg.TTLFor(cache.SourceVisit, 5*time.Minute))
	// Output:
	// search: 1h0m0s
	// visit: 24h0m0s
	// embedding: 168h0m0s
	// override: 5m0s
}
