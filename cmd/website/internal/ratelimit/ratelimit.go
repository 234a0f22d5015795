package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

const (
	DefaultIdleTimeout = 10 * time.Minute
)

type Limiter interface {
	Allow(key string) bool
}

type InMemoryLimiterConfig struct {
	Burst       int
	Clock       clockwork.Clock
	IdleTimeout time.Duration
	Per         time.Duration
	Requests    int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

/*
InMemoryLimiter keeps one token bucket per key. Requests 20, Per time.Minute
and Burst 5 allow 20 requests a minute with bursts of 5. Buckets not used for
IdleTimeout are dropped.
*/
type InMemoryLimiter struct {
	mu          sync.Mutex
	clients     map[string]*clientLimiter
	clock       clockwork.Clock
	idleTimeout time.Duration
	lastSweep   time.Time
	r           rate.Limit
	b           int
}

func NewInMemoryLimiter(config InMemoryLimiterConfig) *InMemoryLimiter {
	if config.Requests <= 0 {
		config.Requests = 1
	}

	if config.Per <= 0 {
		config.Per = time.Minute
	}

	if config.Burst <= 0 {
		config.Burst = 1
	}

	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}

	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	return &InMemoryLimiter{
		clients:     make(map[string]*clientLimiter),
		clock:       config.Clock,
		idleTimeout: config.IdleTimeout,
		lastSweep:   config.Clock.Now(),
		r:           rate.Every(config.Per / time.Duration(config.Requests)),
		b:           config.Burst,
	}
}

func (l *InMemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.sweep(now)

	client, exists := l.clients[key]

	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[key] = client
	}

	client.lastSeen = now
	return client.limiter.AllowN(now, 1)
}

/*
Len returns how many buckets are currently held.
*/
func (l *InMemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.clients)
}

func (l *InMemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTimeout {
		return
	}

	for key, client := range l.clients {
		if now.Sub(client.lastSeen) >= l.idleTimeout {
			delete(l.clients, key)
		}
	}

	l.lastSweep = now
}

/*
IPResolver picks the address a request is limited by. X-Forwarded-For is only
read when the connection comes from a trusted proxy. The header is then walked
from the right and the first address that is not itself a trusted proxy wins.
*/
type IPResolver struct {
	trusted []netip.Prefix
}

/*
NewIPResolver parses trusted proxies given as addresses or CIDR ranges.
Blank entries are ignored.
*/
func NewIPResolver(trustedProxies []string) (IPResolver, error) {
	result := IPResolver{}

	for _, value := range trustedProxies {
		value = strings.TrimSpace(value)

		if value == "" {
			continue
		}

		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)

			if err != nil {
				return IPResolver{}, fmt.Errorf("error parsing trusted proxy %q: %w", value, err)
			}

			result.trusted = append(result.trusted, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(value)

		if err != nil {
			return IPResolver{}, fmt.Errorf("error parsing trusted proxy %q: %w", value, err)
		}

		addr = addr.Unmap()
		result.trusted = append(result.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return result, nil
}

func (r IPResolver) ClientIP(req *http.Request) string {
	remote := RemoteIP(req)

	if !r.isTrusted(remote) {
		return remote
	}

	forwarded := strings.Split(req.Header.Get("X-Forwarded-For"), ",")

	for i := len(forwarded) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(forwarded[i])

		if candidate == "" {
			continue
		}

		if !r.isTrusted(candidate) {
			return candidate
		}
	}

	return remote
}

func (r IPResolver) isTrusted(value string) bool {
	addr, err := netip.ParseAddr(value)

	if err != nil {
		return false
	}

	addr = addr.Unmap()

	for _, prefix := range r.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}

/*
RemoteIP is the host part of the connection's remote address.
*/
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)

	if err != nil {
		return r.RemoteAddr
	}

	return host
}
