// Package web serves the search page and its JSON API using chi.
package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/starford/hnquery/internal/session"
)

// DefaultCookieName names the visitor session cookie.
const DefaultCookieName = "hnquery_session"

// SessionMiddleware makes sure every request carries a visitor ID. A new
// ID is issued as a cookie when the request has none.
func SessionMiddleware(cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(cookieName); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(session.WithID(r.Context(), id)))
		})
	}
}
