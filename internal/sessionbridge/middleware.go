package sessionbridge

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-cms-workflow/internal/logging"
)

// SessionFunc returns the session of a request.
type SessionFunc func(r *http.Request) Session

// Middleware redeems a token found in the query string, then redirects to
// the same URL without it. The redirect happens whether or not the token
// was valid so the token never lingers in the address bar.
func (b *Bridge) Middleware(session SessionFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get(TokenParam)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			logger := b.logger.WithContext(r.Context())
			if err := b.Accept(r.Context(), token, session(r)); err != nil {
				if errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenRequired) {
					logging.WithFields(logger, map[string]any{"path": r.URL.Path}).Info("sessionbridge.token_rejected", "error", err)
				} else {
					logger.Error("sessionbridge.accept_failed", "error", err)
				}
			}
			http.Redirect(w, r, StripToken(r), http.StatusFound)
		})
	}
}

// StripToken returns the request URI without the token parameter.
func StripToken(r *http.Request) string {
	u := *r.URL
	query := u.Query()
	query.Del(TokenParam)
	u.RawQuery = query.Encode()
	return u.RequestURI()
}
