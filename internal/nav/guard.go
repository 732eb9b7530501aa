package nav

import (
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/model-cloud/mcloud/internal/notify"
	"github.com/model-cloud/mcloud/internal/session"
)

const (
	msgLoginRequired = "Please log in first"
	msgAdminRequired = "Insufficient permission, admin access required"
)

// Resolution is the outcome of a navigation attempt. Path and Route
// describe where navigation actually landed; Redirected is set when
// that differs from the requested destination. Query carries the
// redirect-back parameter for the login view.
type Resolution struct {
	Route      *Route
	Path       string
	Query      url.Values
	Redirected bool
}

// Router evaluates navigation attempts against the route table and the
// session. A token is taken at face value here; a stale or forged one
// is only caught by the API client's 401 handling on the next call.
// RedirectToLogin arrives from whichever goroutine issued the failing
// request, so position state is mutex-guarded like the session store.
type Router struct {
	routes   []Route
	sessions *session.Store
	storage  session.Storage
	notifier notify.Notifier
	log      zerolog.Logger

	mu      sync.Mutex
	current string
	pending url.Values
}

// NewRouter returns a router positioned on the login view.
func NewRouter(sessions *session.Store, storage session.Storage, notifier notify.Notifier, log zerolog.Logger) *Router {
	return &Router{
		routes:   Routes(),
		sessions: sessions,
		storage:  storage,
		notifier: notifier,
		log:      log,
		current:  PathLogin,
	}
}

// Current returns the path navigation last landed on.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Match resolves a path to its route, falling back to the catch-all
// not-found route.
func (r *Router) Match(path string) *Route {
	for i := range r.routes {
		if r.routes[i].Path == PathNotFound {
			continue
		}
		if r.routes[i].matches(path) {
			return &r.routes[i]
		}
	}
	for i := range r.routes {
		if r.routes[i].Path == PathNotFound {
			return &r.routes[i]
		}
	}
	return nil
}

// Navigate evaluates the guard for a destination and moves the router
// to wherever the guard decides.
func (r *Router) Navigate(path string) *Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	dest := r.Match(path)

	// Prefer the in-memory token; fall back to durable storage and
	// re-seed the store. Covers a store constructed after the token
	// was persisted.
	token := r.sessions.Token()
	if token == "" {
		stored, ok, err := r.storage.Get(session.KeyToken)
		if err != nil {
			r.log.Warn().Err(err).Msg("failed to read token from storage")
		} else if ok && stored != "" {
			token = stored
			if err := r.sessions.SetToken(stored); err != nil {
				r.log.Warn().Err(err).Msg("failed to re-seed session token")
			}
		}
	}

	if !dest.RequiresAuth {
		// Logged-in users bounce off the login and registration views.
		if (dest.Path == PathLogin || dest.Path == PathRegister) && token != "" {
			return r.land(r.Match(PathHome), PathHome, nil, true)
		}
		// A forced redirect recorded where navigation was interrupted;
		// hand that back to the login view so it can resume afterwards.
		if dest.Path == PathLogin && r.pending != nil {
			query := r.pending
			r.pending = nil
			return r.land(dest, path, query, false)
		}
		return r.land(dest, path, nil, false)
	}

	if token == "" {
		r.notifier.Warn(msgLoginRequired)
		query := url.Values{"redirect": {path}}
		return r.land(r.Match(PathLogin), PathLogin, query, true)
	}

	if dest.RequiresAdmin && !r.sessions.IsAdmin() {
		r.notifier.Warn(msgAdminRequired)
		return r.land(r.Match(PathHome), PathHome, nil, true)
	}

	return r.land(dest, path, nil, false)
}

// RedirectToLogin implements the API client's Navigator: a rejected
// token sends navigation back to login, keeping the interrupted path
// as the redirect-back target.
func (r *Router) RedirectToLogin() {
	r.mu.Lock()
	defer r.mu.Unlock()

	from := r.current
	query := url.Values{}
	if from != "" && from != PathLogin {
		query.Set("redirect", from)
		r.pending = query
	}
	r.land(r.Match(PathLogin), PathLogin, query, true)
}

// land records the new position. Caller holds mu.
func (r *Router) land(route *Route, path string, query url.Values, redirected bool) *Resolution {
	r.current = path
	return &Resolution{Route: route, Path: path, Query: query, Redirected: redirected}
}
