package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Each client IP carries two budgets. Browse traffic is cheap and gets a
// generous one; claim requests fan out to the chain relayer and hold a
// connection open through confirmation polling, so they are throttled much
// harder.
type visitor struct {
	browse   *rate.Limiter
	claim    *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*visitor)
	mu       sync.Mutex
)

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		v := getVisitor(ip)

		limiter := v.browse
		if strings.HasSuffix(r.URL.Path, "/claim") {
			limiter = v.claim
		}

		if !limiter.Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getVisitor(ip string) *visitor {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		v = &visitor{
			browse: rate.NewLimiter(5, 30),
			// One claim every two seconds matches the confirmation poll
			// interval; the burst covers a legitimate retry after a
			// partial failure.
			claim: rate.NewLimiter(rate.Every(2*time.Second), 3),
		}
		visitors[ip] = v
		return v
	}

	v.lastSeen = time.Now()
	return v
}

// CleanupVisitors runs as a goroutine from main and evicts idle entries.
func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		mu.Lock()
		for ip, v := range visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(visitors, ip)
			}
		}
		mu.Unlock()
	}
}
