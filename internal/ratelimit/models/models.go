package models

import "time"

// RateLimitResult is the outcome of one limiter check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the API response when an IP is over its limit.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Limit is a request budget per window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// IPKey namespaces a client IP for one route class, e.g. "rl:subscribe:10.0.0.1".
func IPKey(class, ip string) string {
	return "rl:" + class + ":" + ip
}
