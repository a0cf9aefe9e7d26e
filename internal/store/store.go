// Package store implements a small reducer-driven state container.
//
// State changes only through Dispatch: the reducer receives the current
// state and an action and returns the next state. Reducers must not
// mutate their input.
package store

import "sync"

// Action describes a state change.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Reducer computes the next state from the prior state and an action.
type Reducer[S any] func(state S, action Action) S

// Listener is called after every dispatch with the new state.
type Listener[S any] func(state S)

// Store holds state of type S. It is safe for concurrent use. Dispatches
// are serialised and listeners see states in dispatch order, called in
// subscription order. A listener must not call Dispatch.
type Store[S any] struct {
	// notifyMu is held across reduce and notify; mu guards the fields.
	notifyMu  sync.Mutex
	mu        sync.Mutex
	reducer   Reducer[S]
	state     S
	listeners map[int]Listener[S]
	order     []int
	nextID    int
}

// New creates a store with the given reducer and initial state.
func New[S any](reducer Reducer[S], initial S) *Store[S] {
	return &Store[S]{
		reducer:   reducer,
		state:     initial,
		listeners: make(map[int]Listener[S]),
	}
}

// State returns the current state. Callers must treat it as read-only.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs the reducer and notifies listeners. It returns the new state.
func (s *Store[S]) Dispatch(action Action) S {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	next := s.state
	listeners := make([]Listener[S], 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Subscribe registers l and returns a function that removes it.
func (s *Store[S]) Subscribe(l Listener[S]) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
