// Package searchservice ties the search client, the visitor sessions and
// the shared history store together.
package searchservice

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/hnquery/internal/models"
	"github.com/starford/hnquery/internal/session"
	"github.com/starford/hnquery/internal/sse"
	"github.com/starford/hnquery/internal/store"
)

// Searcher fetches hits for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Hit, error)
}

// Publisher receives change notifications.
type Publisher interface {
	Publish(event sse.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(sse.Event) {}

// Service runs searches on behalf of sessions and records each submitted
// query in two places: the visitor's local history and the shared store.
// The two are appended to independently and never reconciled.
type Service struct {
	searcher  Searcher
	sessions  *session.Manager
	history   *store.Store[[]string]
	publisher Publisher
	logger    *slog.Logger

	inflight sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where change events are sent.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service. The history store is subscribed so that every
// dispatch is announced as a history.updated event.
func New(searcher Searcher, sessions *session.Manager, history *store.Store[[]string], opts ...Option) *Service {
	s := &Service{
		searcher:  searcher,
		sessions:  sessions,
		history:   history,
		publisher: nopPublisher{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	history.Subscribe(func(searches []string) {
		s.publisher.Publish(sse.Event{
			Type: sse.EventHistoryUpdated,
			Data: map[string]any{"count": len(searches)},
		})
	})
	return s
}

// Submit records query in both histories and starts the fetch in the
// background. It does not wait for, cancel or de-duplicate fetches: when
// two overlap, whichever finishes last owns the session's results.
func (s *Service) Submit(ctx context.Context, sessionID, query string) error {
	sess, err := s.record(sessionID, query)
	if err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		_, _ = s.fetch(bg, sess, query)
	}()
	return nil
}

// SubmitAndWait records query in both histories and fetches inline.
// The returned error is the same one stored on the session.
func (s *Service) SubmitAndWait(ctx context.Context, sessionID, query string) ([]models.Hit, error) {
	sess, err := s.record(sessionID, query)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, sess, query)
}

// Wait blocks until background fetches started by Submit have finished.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// Snapshot returns the state of sessionID.
func (s *Service) Snapshot(sessionID string) (session.Snapshot, error) {
	return s.sessions.Snapshot(sessionID)
}

// GlobalSearches returns the history held by the shared store.
func (s *Service) GlobalSearches() []string {
	return store.Searches(s.history)
}

func (s *Service) record(sessionID, query string) (*session.Session, error) {
	sess, err := s.sessions.GetOrCreate(sessionID)
	if err != nil {
		return nil, err
	}
	sess.SetQuery(query)
	sess.AppendSearch(query)
	s.history.Dispatch(store.AddSearch(query))
	return sess, nil
}

// fetch is the single failure boundary: any error becomes a display
// string on the session and the previous results stay in place.
func (s *Service) fetch(ctx context.Context, sess *session.Session, query string) ([]models.Hit, error) {
	hits, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("search failed",
			slog.String("session", sess.ID),
			slog.String("query", query),
			slog.String("error", err.Error()))
		sess.SetError(err.Error())
		s.publisher.Publish(sse.Event{
			Type:    sse.EventSearchFailed,
			Session: sess.ID,
			Data:    map[string]string{"error": err.Error()},
		})
		return nil, err
	}

	sess.SetResults(hits)
	s.logger.Debug("search completed",
		slog.String("session", sess.ID),
		slog.String("query", query),
		slog.Int("hits", len(hits)))
	s.publisher.Publish(sse.Event{
		Type:    sse.EventResultsUpdated,
		Session: sess.ID,
		Data:    map[string]int{"count": len(hits)},
	})
	return hits, nil
}
