package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/noshow-decision-demo/internal/session"
)

// CORSOptions configures cross-origin access to the decision API. Empty
// methods and headers fall back to what the demo page sends.
type CORSOptions struct {
	// AllowedOrigins may contain "*" to echo back any Origin.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

var (
	defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	defaultCORSHeaders = []string{"Content-Type", "X-Request-ID", session.Header}
)

const defaultCORSMaxAge = 10 * time.Minute

type corsPolicy struct {
	anyOrigin bool
	origins   map[string]struct{}
	methods   string
	headers   string
	maxAge    string
}

func newCORSPolicy(opts CORSOptions) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{})}
	for _, origin := range opts.AllowedOrigins {
		switch origin = strings.TrimSpace(origin); origin {
		case "":
		case "*":
			p.anyOrigin = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	methods, headers, maxAge := opts.AllowedMethods, opts.AllowedHeaders, opts.MaxAge
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	if maxAge <= 0 {
		maxAge = defaultCORSMaxAge
	}
	p.methods = strings.Join(methods, ", ")
	p.headers = strings.Join(headers, ", ")
	p.maxAge = strconv.Itoa(int(maxAge / time.Second))
	return p
}

func (p corsPolicy) allows(origin string) bool {
	if p.anyOrigin {
		return true
	}
	_, ok := p.origins[origin]
	return ok
}

// CORS answers preflights and sets the allow headers for listed origins.
// A preflight from an unlisted origin is refused with 403.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	policy := newCORSPolicy(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			preflight := r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != ""
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")
			if !policy.allows(origin) {
				if preflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", policy.headers)
			w.Header().Set("Access-Control-Allow-Methods", policy.methods)
			w.Header().Set("Access-Control-Max-Age", policy.maxAge)
			if preflight {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
