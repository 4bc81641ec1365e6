package metadata

import (
	"net"
	"net/http"
	"strings"

	"adonix/pkg/requestcontext"
)

// ClientMetadata records the caller's address in the request context.
// Apply it before the request logger so log lines carry client_ip.
//
// Forwarding headers are honored only when trustProxy is set, i.e. the
// server is reachable solely through a proxy that overwrites them.
func ClientMetadata(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientIP(r.Context(), ClientIPFromRequest(r, trustProxy))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIPFromRequest returns the peer address, or the address reported by
// the trusted proxy when trustProxy is set.
func ClientIPFromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// The trusted proxy appends the peer it saw, so the last hop is the
		// only entry a client cannot forge.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
				return last
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	return remoteIP(r.RemoteAddr)
}

func remoteIP(addr string) string {
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
