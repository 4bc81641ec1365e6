// Package httpserver builds the process's http.Server values.
package httpserver

import (
	"net/http"
	"time"
)

// Option adjusts a server before it is returned.
type Option func(*http.Server)

// WithHandlerTimeout sizes the write timeout so a handler given d to finish
// can still flush its response.
func WithHandlerTimeout(d time.Duration) Option {
	return func(s *http.Server) {
		if d > 0 {
			s.WriteTimeout = d + 5*time.Second
		}
	}
}

// New returns a server bound to addr. Slow clients are cut off by the read
// and idle timeouts.
func New(addr string, handler http.Handler, opts ...Option) *http.Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
