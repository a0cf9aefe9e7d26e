package web

import "github.com/starford/hnquery/internal/models"

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// StateResponse is the visitor's page state. Version changes whenever the
// visitor's session does.
type StateResponse struct {
	Version       uint64       `json:"version"`
	Query         string       `json:"query"`
	Results       []models.Hit `json:"results"`
	Error         string       `json:"error,omitempty"`
	Searches      []string     `json:"searches"`
	StoreSearches []string     `json:"store_searches"`
}

// SearchesResponse wraps the shared history.
type SearchesResponse struct {
	Searches []string `json:"searches"`
}
