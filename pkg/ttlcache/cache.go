package ttlcache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultTTL = 5 * time.Minute
)

/*
Cache holds a single value for a fixed time to live. It is safe for
concurrent use.
*/
type Cache[T any] struct {
	mu        sync.RWMutex
	clock     clockwork.Clock
	ttl       time.Duration
	value     T
	storedAt  time.Time
	populated bool
}

type Config struct {
	Clock clockwork.Clock
	TTL   time.Duration
}

func New[T any](config Config) *Cache[T] {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}

	return &Cache[T]{
		clock: config.Clock,
		ttl:   config.TTL,
	}
}

/*
Get returns the cached value and true while it is younger than the TTL.
*/
func (c *Cache[T]) Get() (T, bool) {
	var (
		zero T
	)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.populated {
		return zero, false
	}

	if c.clock.Since(c.storedAt) >= c.ttl {
		return zero, false
	}

	return c.value, true
}

func (c *Cache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.storedAt = c.clock.Now()
	c.populated = true
}

func (c *Cache[T]) Clear() {
	var (
		zero T
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = zero
	c.storedAt = time.Time{}
	c.populated = false
}

func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}
