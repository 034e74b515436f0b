package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdle is how long an address may go without requests before its
// bucket is forgotten. A forgotten address starts again with a full burst.
const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiters hands out one token bucket per client address
type limiters struct {
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	idle      time.Duration
	byIP      map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

func newLimiters(perSecond float64, burst int) *limiters {
	return &limiters{
		rate:  rate.Limit(perSecond),
		burst: burst,
		idle:  limiterIdle,
		byIP:  make(map[string]*visitor),
		now:   time.Now,
	}
}

func (l *limiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	v, ok := l.byIP[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.byIP[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops every address idle for longer than l.idle. Caller holds mu.
func (l *limiters) sweep(now time.Time) {
	for ip, v := range l.byIP {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.byIP, ip)
		}
	}
	l.lastSweep = now
}

func (l *limiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byIP)
}

// allow spends a token for the request's remote address
func (l *limiters) allow(r *http.Request) bool {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return l.get(ip).Allow()
}
