package sentry_ext

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	// repeatWindow is how long an identical error stays muted after it
	// has been reported once.
	repeatWindow = 5 * time.Minute

	defaultCacheSize = 100
)

// cache remembers when each distinct error message was last reported.
type cache struct {
	recent *lru.Cache
}

func newCache(size int) (*cache, error) {
	if size == 0 {
		size = defaultCacheSize
	}
	recent, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &cache{recent: recent}, nil
}

// shouldCapture reports whether the error is new enough to send.
//
// Identical messages within repeatWindow of each other are reported once.
// Anything evicted from the LRU counts as new again, which errs on the side
// of reporting.
func (c *cache) shouldCapture(err error) bool {
	// Key on a digest of the message so keys stay short.
	sum := md5.Sum([]byte(err.Error()))
	key := hex.EncodeToString(sum[:])

	now := time.Now()
	if lastSent, ok := c.recent.Get(key); ok {
		if now.Sub(lastSent.(time.Time)) < repeatWindow {
			return false
		}
	}

	c.recent.Add(key, now)
	return true
}

// Len returns the number of distinct errors being tracked.
func (c *cache) Len() int {
	return c.recent.Len()
}
