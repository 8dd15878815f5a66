package gate

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/spaolacci/murmur3"
)

// outcome is the part of a verdict that depends only on document content
// and step budget.
type outcome struct {
	valid     bool
	errorKind string
	item      string
	target    string
	message   string
}

// verdictCache holds outcomes keyed by fingerprint and step budget.
// Every entry has cost 1, so size is the number of outcomes kept.
type verdictCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func newVerdictCache(size int64, ttl time.Duration) (*verdictCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * size,
		MaxCost:     size,
		BufferItems: 64,
		Metrics:     true,
		KeyToHash:   murmurKey,
	})
	if err != nil {
		return nil, fmt.Errorf("verdict cache: %w", err)
	}
	return &verdictCache{cache: cache, ttl: ttl}, nil
}

// murmurKey hashes string keys with 128-bit murmur3; the second half serves
// as ristretto's conflict check.
func murmurKey(key any) (uint64, uint64) {
	return murmur3.Sum128([]byte(key.(string)))
}

func cacheKey(fingerprint string, maxSteps int) string {
	return fingerprint + ":" + strconv.Itoa(maxSteps)
}

func (c *verdictCache) get(key string) (outcome, bool) {
	if c == nil {
		return outcome{}, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return outcome{}, false
	}
	return v.(outcome), true
}

// set stores an outcome and waits for the write buffer to drain, so a
// following get of the same key hits.
func (c *verdictCache) set(key string, o outcome) {
	if c == nil {
		return
	}
	c.cache.SetWithTTL(key, o, 1, c.ttl)
	c.cache.Wait()
}

func (c *verdictCache) hits() uint64 {
	if c == nil {
		return 0
	}
	return c.cache.Metrics.Hits()
}

func (c *verdictCache) close() {
	if c != nil {
		c.cache.Close()
	}
}
