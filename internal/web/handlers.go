package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/hnquery/internal/searchservice"
	"github.com/starford/hnquery/internal/session"
)

// Handler holds the page and API handlers.
type Handler struct {
	svc   *searchservice.Service
	tmpl  *Templates
	title string
}

// NewHandler creates a new Handler.
func NewHandler(svc *searchservice.Service, tmpl *Templates, title string) *Handler {
	return &Handler{svc: svc, tmpl: tmpl, title: title}
}

func (h *Handler) state(r *http.Request) (StateResponse, error) {
	snap, err := h.svc.Snapshot(session.IDFromContext(r.Context()))
	if err != nil {
		return StateResponse{}, err
	}
	return StateResponse{
		Version:       snap.Version,
		Query:         snap.Query,
		Results:       snap.Results,
		Error:         snap.Error,
		Searches:      snap.Searches,
		StoreSearches: h.svc.GlobalSearches(),
	}, nil
}

// Index handles GET /.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	st, err := h.state(r)
	if err != nil {
		slog.Error("load session failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = h.tmpl.Render(w, PageData{
		Title:         h.title,
		Version:       st.Version,
		Query:         st.Query,
		Error:         st.Error,
		Results:       st.Results,
		Searches:      st.Searches,
		StoreSearches: st.StoreSearches,
	})
	if err != nil {
		slog.Error("render page failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// SubmitForm handles POST /search. The fetch runs in the background and
// the browser is sent back to the page straight away.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	query := r.PostFormValue("query")
	if err := h.svc.Submit(r.Context(), session.IDFromContext(r.Context()), query); err != nil {
		slog.Error("submit failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// State handles GET /api/state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.state(r)
	if err != nil {
		slog.Error("load session failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Search handles POST /api/search. It waits for the fetch and returns the
// updated state, or 502 with the failure message.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	if _, err := h.svc.SubmitAndWait(r.Context(), session.IDFromContext(r.Context()), req.Query); err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	h.State(w, r)
}

// Searches handles GET /api/searches.
func (h *Handler) Searches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SearchesResponse{Searches: h.svc.GlobalSearches()})
}
