package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kelydev/apiGrants/metrics"
	"go.uber.org/zap"
)

// DefaultSignInPath is where unauthenticated callers are sent.
const DefaultSignInPath = "/auth"

const placeholderHTML = `<!doctype html>
<html><head><meta charset="utf-8"><title>Loading</title></head>
<body><p aria-busy="true">Loading&hellip;</p></body></html>
`

// TokenSource pulls the caller's access token out of a request. It returns
// "" when the request carries none.
type TokenSource func(r *http.Request) string

// Guard gates protected handlers on the caller's session.
type Guard struct {
	auth           Authenticator
	tokens         TokenSource
	signInPath     string
	loadingTimeout time.Duration
	lookupTimeout  time.Duration
	placeholder    http.Handler
	log            *zap.Logger
}

type GuardOption func(*Guard)

func WithSignInPath(path string) GuardOption {
	return func(g *Guard) { g.signInPath = path }
}

// WithLoadingTimeout sets how long a request waits for the lookup before the
// placeholder is served instead.
func WithLoadingTimeout(d time.Duration) GuardOption {
	return func(g *Guard) { g.loadingTimeout = d }
}

// WithLookupTimeout bounds the lookup itself. Running out counts as a failed
// lookup.
func WithLookupTimeout(d time.Duration) GuardOption {
	return func(g *Guard) { g.lookupTimeout = d }
}

func WithPlaceholder(h http.Handler) GuardOption {
	return func(g *Guard) { g.placeholder = h }
}

func WithLogger(l *zap.Logger) GuardOption {
	return func(g *Guard) { g.log = l }
}

func NewGuard(auth Authenticator, tokens TokenSource, opts ...GuardOption) *Guard {
	g := &Guard{
		auth:           auth,
		tokens:         tokens,
		signInPath:     DefaultSignInPath,
		loadingTimeout: 2 * time.Second,
		lookupTimeout:  5 * time.Second,
		placeholder:    http.HandlerFunc(servePlaceholder),
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Protect wraps next so it only runs for authenticated callers. next receives
// the request unchanged apart from the session in its context.
func (g *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		pending := g.lookup(ctx, g.tokens(r))

		timer := time.NewTimer(g.loadingTimeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			g.abandon(r)
		case <-timer.C:
			g.act(w, r, next, Resolution{State: StateLoading})
		case res := <-pending:
			if ctx.Err() != nil {
				g.abandon(r)
				return
			}
			if !StateLoading.CanTransition(res.State) {
				res = Resolution{State: StateUnauthenticated, Err: fmt.Errorf("lookup settled in state %s", res.State)}
			}
			g.act(w, r, next, res)
		}
	})
}

// lookup asks the authenticator for the session behind token. The returned
// channel is buffered so an abandoned lookup never blocks its goroutine.
func (g *Guard) lookup(ctx context.Context, token string) <-chan Resolution {
	ch := make(chan Resolution, 1)
	if token == "" {
		ch <- Resolve(nil, nil)
		return ch
	}

	go func() {
		lctx, cancel := context.WithTimeout(ctx, g.lookupTimeout)
		defer cancel()

		start := time.Now()
		var (
			s   *Session
			err error
		)
		defer func() {
			if p := recover(); p != nil {
				s, err = nil, fmt.Errorf("session lookup panicked: %v", p)
			}
			metrics.SessionLookupLatency.Observe(float64(time.Since(start).Milliseconds()))
			ch <- Resolve(s, err)
		}()

		s, err = g.auth.GetSession(lctx, token)
	}()
	return ch
}

func (g *Guard) act(w http.ResponseWriter, r *http.Request, next http.Handler, res Resolution) {
	switch Decide(res.State) {
	case ActionPlaceholder:
		metrics.GuardOutcomes.WithLabelValues("placeholder").Inc()
		g.log.Warn("session lookup still pending, serving placeholder",
			zap.String("path", r.URL.Path),
			zap.Duration("waited", g.loadingTimeout),
		)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Retry-After", "1")
		w.Header().Set("Refresh", "1")
		g.placeholder.ServeHTTP(w, r)

	case ActionRedirect:
		if res.Err != nil {
			metrics.GuardOutcomes.WithLabelValues("lookup_failed").Inc()
			g.log.Error("session lookup failed, denying access",
				zap.String("path", r.URL.Path),
				zap.Error(res.Err),
			)
		} else {
			metrics.GuardOutcomes.WithLabelValues("unauthenticated").Inc()
			g.log.Debug("no active session, redirecting", zap.String("path", r.URL.Path))
		}
		http.Redirect(w, r, g.signInPath, http.StatusFound)

	case ActionRender:
		metrics.GuardOutcomes.WithLabelValues("authenticated").Inc()
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), res.Session)))
	}
}

func (g *Guard) abandon(r *http.Request) {
	metrics.GuardOutcomes.WithLabelValues("abandoned").Inc()
	g.log.Debug("request gone before session resolved", zap.String("path", r.URL.Path))
}

func servePlaceholder(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	io.WriteString(w, placeholderHTML)
}
