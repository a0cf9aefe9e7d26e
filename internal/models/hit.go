// Package models defines the domain types for hnquery.
package models

import "strings"

// Hit is one search result as returned by the Hacker News search API.
// Values are kept verbatim; nothing is validated or normalised.
type Hit struct {
	CreatedAt string `json:"created_at"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Points    int    `json:"points"`
}

// DisplayTime makes the API timestamp readable:
// "2017-05-01T01:55:04.000Z" becomes "2017-05-01 at 01:55:04".
// Only the first occurrence of each marker is replaced.
func (h Hit) DisplayTime() string {
	s := strings.Replace(h.CreatedAt, "T", " at ", 1)
	return strings.Replace(s, ".000Z", "", 1)
}
