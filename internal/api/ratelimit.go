package api

import (
	"net/http"
	"strings"

	"github.com/notevault/notevault-server/internal/http/response"
	"github.com/notevault/notevault-server/internal/ratelimit"
)

// Credential endpoints get a tight per-IP budget to slow down password
// guessing. 10 attempts per minute with a small burst is generous for
// humans and hostile to scripts.
const (
	authRateRPS   = 10.0 / 60.0
	authRateBurst = 5
)

// rateLimitByIP returns middleware that rejects requests over the
// per-IP budget with 429.
func (s *Server) rateLimitByIP(limiter *ratelimit.KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.Allow(key) {
				if s.logger != nil {
					s.logger.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
				}
				response.TooManyRequests(w, "Too many requests. Please try again later.", s.logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First IP in the chain is the client.
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// RemoteAddr carries a port, strip it.
	if i := strings.LastIndexByte(r.RemoteAddr, ':'); i >= 0 {
		return r.RemoteAddr[:i]
	}
	return r.RemoteAddr
}
