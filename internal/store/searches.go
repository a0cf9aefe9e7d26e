package store

import "slices"

// ActionAddSearch appends a query to the search history.
const ActionAddSearch = "ADD_SEARCH"

// SearchPayload is the payload of an ADD_SEARCH action.
type SearchPayload struct {
	Query string `json:"query"`
}

// AddSearch builds an ADD_SEARCH action for query.
func AddSearch(query string) Action {
	return Action{Type: ActionAddSearch, Payload: SearchPayload{Query: query}}
}

// RootReducer keeps the ordered list of submitted queries. Duplicates are
// kept and nothing is normalised. Unknown actions return state unchanged.
func RootReducer(state []string, action Action) []string {
	switch action.Type {
	case ActionAddSearch:
		p, ok := action.Payload.(SearchPayload)
		if !ok {
			return state
		}
		next := make([]string, len(state), len(state)+1)
		copy(next, state)
		return append(next, p.Query)
	default:
		return state
	}
}

// NewSearchHistory returns a store wired to RootReducer with an empty history.
func NewSearchHistory() *Store[[]string] {
	return New[[]string](RootReducer, []string{})
}

// Searches returns a copy of the history held by st.
func Searches(st *Store[[]string]) []string {
	return slices.Clone(st.State())
}
