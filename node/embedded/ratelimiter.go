package embedded

import (
	"net"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// visitors hands out one token bucket per remote IP. The least recently
// seen IPs are evicted once the cache is full.
type visitors struct {
	limit rate.Limit
	burst int

	lock  sync.Mutex
	cache *lru.Cache
}

func newVisitors(size int, limit float64, burst int) (*visitors, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &visitors{
		limit: rate.Limit(limit),
		burst: burst,
		cache: cache,
	}, nil
}

func (v *visitors) getVisitor(ip string) *rate.Limiter {
	v.lock.Lock()
	defer v.lock.Unlock()

	if limiter, ok := v.cache.Get(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(v.limit, v.burst)
	v.cache.Add(ip, limiter)
	return limiter
}

func (v *visitors) isAllowed(hostPort string) bool {
	ip, _, err := net.SplitHostPort(hostPort)
	if err != nil {
		return false
	}
	return v.getVisitor(ip).Allow()
}

func (v *visitors) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !v.isAllowed(r.RemoteAddr) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
