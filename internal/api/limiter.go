package api

import (
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"math"
	"sync"
	"time"
)

// clientLimiters keeps one token bucket per key. Idle buckets expire.
type clientLimiters struct {
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
	limiters *gocache.Cache
}

func newClientLimiters(perSecond float64) *clientLimiters {
	return &clientLimiters{
		limit:    rate.Limit(perSecond),
		burst:    int(math.Ceil(perSecond)),
		limiters: gocache.New(10*time.Minute, 20*time.Minute),
	}
}

func (l *clientLimiters) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if value, found := l.limiters.Get(key); found {
		limiter = value.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	l.limiters.Set(key, limiter, gocache.DefaultExpiration)

	return limiter.Allow()
}
