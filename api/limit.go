// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"net"
	"net/http"
	"sync"
)

// DefaultMaxRequestsPerIP bounds in-flight requests from one client
const DefaultMaxRequestsPerIP = 16

// ipKeyFromRemoteAddr extracts a limiter key from a request remote
// address. IPv4 clients are keyed by address and IPv6 clients by their /64
// prefix, so rotating hosts within one subnet still counts as one client.
// Addresses that do not parse are exempt.
func ipKeyFromRemoteAddr(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return ""
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return ""
	}
	// IPv4 or IPv4-mapped IPv6: use the full address as the key
	if ip4 := ip.To4(); ip4 != nil {
		return ip4.String()
	}
	mask := net.CIDRMask(64, 128)
	return ip.Mask(mask).String() + "/64"
}

// ipLimiter counts in-flight requests per client key
type ipLimiter struct {
	max    int
	counts map[string]int
	mu     sync.Mutex
}

func newIPLimiter(maxPerIP int) *ipLimiter {
	if maxPerIP <= 0 {
		maxPerIP = DefaultMaxRequestsPerIP
	}
	return &ipLimiter{
		max:    maxPerIP,
		counts: make(map[string]int),
	}
}

func (l *ipLimiter) acquire(key string) bool {
	if key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[key] >= l.max {
		return false
	}
	l.counts[key]++
	return true
}

func (l *ipLimiter) release(key string) {
	if key == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[key]--
	if l.counts[key] <= 0 {
		delete(l.counts, key)
	}
}

func (l *ipLimiter) inFlight(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[key]
}

// middleware rejects requests beyond the per-client limit with 429
func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ipKeyFromRemoteAddr(r.RemoteAddr)
		if !l.acquire(key) {
			writeError(w, http.StatusTooManyRequests, "too many concurrent requests")
			return
		}
		defer l.release(key)
		next.ServeHTTP(w, r)
	})
}
