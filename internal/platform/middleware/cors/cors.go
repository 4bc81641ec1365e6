// Package cors gates public routes on the request Origin.
//
// The gate runs before any route logic: a request whose Origin matches no
// configured pattern is answered with an empty 403 and never reaches the
// handler. Requests without an Origin header are same-origin and pass.
package cors

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	chicors "github.com/go-chi/cors"

	"adonix/internal/platform/metrics"
	"adonix/pkg/requestcontext"
)

// RuleSet is an ordered list of origin patterns compiled once at startup.
type RuleSet struct {
	rules []*regexp.Regexp
}

// Compile builds a RuleSet from regular expressions, in order.
func Compile(patterns []string) (RuleSet, error) {
	rules := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return RuleSet{}, fmt.Errorf("compile origin pattern %q: %w", p, err)
		}
		rules = append(rules, re)
	}
	return RuleSet{rules: rules}, nil
}

// MustCompile is Compile for static patterns; it panics on error.
func MustCompile(patterns ...string) RuleSet {
	rs, err := Compile(patterns)
	if err != nil {
		panic(err)
	}
	return rs
}

// Allowed reports whether origin may receive a response. An empty origin
// is treated as same-origin.
func (rs RuleSet) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, re := range rs.rules {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}

// Patterns returns the source of each rule in order.
func (rs RuleSet) Patterns() []string {
	out := make([]string, len(rs.rules))
	for i, re := range rs.rules {
		out[i] = re.String()
	}
	return out
}

// Gate returns middleware enforcing rs. Allowed cross-origin requests get
// Access-Control-Allow-Origin set to their origin; preflights are answered here.
func Gate(rs RuleSet, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	headers := chicors.Handler(chicors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return rs.Allowed(origin)
		},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	return func(next http.Handler) http.Handler {
		withHeaders := headers(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !rs.Allowed(origin) {
				ctx := r.Context()
				logger.WarnContext(ctx, "origin rejected",
					"origin", origin,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				m.IncrementCORSRejected()
				w.WriteHeader(http.StatusForbidden)
				return
			}
			withHeaders.ServeHTTP(w, r)
		})
	}
}
