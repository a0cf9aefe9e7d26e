package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/hnquery/internal/searchservice"
)

// RouterConfig carries the page settings for NewRouter.
type RouterConfig struct {
	Title      string
	CookieName string
}

// NewRouter creates a chi router with the page, the JSON API and, if
// events is non-nil, the SSE stream at GET /api/events. All routes share
// the visitor session middleware.
func NewRouter(svc *searchservice.Service, tmpl *Templates, events http.Handler, cfg RouterConfig) chi.Router {
	h := NewHandler(svc, tmpl, cfg.Title)

	r := chi.NewRouter()
	r.Use(SessionMiddleware(cfg.CookieName))

	r.Get("/", h.Index)
	r.Post("/search", h.SubmitForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.State)
		r.Post("/search", h.Search)
		r.Get("/searches", h.Searches)
		if events != nil {
			r.Get("/events", events.ServeHTTP)
		}
	})

	return r
}
