package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/hnquery/internal/session"
)

func receive(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return ""
	}
}

func assertSilent(t *testing.T, ch chan []byte) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	assert.Equal(t, 0, b.ClientCount())

	ch := b.Subscribe("s1")
	assert.Equal(t, 1, b.ClientCount())

	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.ClientCount())
}

func TestBroadcastDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	a := b.Subscribe("a")
	defer b.Unsubscribe(a)
	anon := b.Subscribe("")
	defer b.Unsubscribe(anon)

	b.Publish(Event{Type: EventHistoryUpdated, Data: map[string]any{"searches": []string{"go"}}})

	for _, ch := range []chan []byte{a, anon} {
		s := receive(t, ch)
		assert.Contains(t, s, "event: history.updated\n")
		assert.Contains(t, s, `"searches":["go"]`)
		assert.True(t, strings.HasSuffix(s, "\n\n"))
	}
}

func TestSessionScopedDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	a := b.Subscribe("a")
	defer b.Unsubscribe(a)
	other := b.Subscribe("b")
	defer b.Unsubscribe(other)

	b.Publish(Event{Type: EventResultsUpdated, Session: "a", Data: map[string]int{"count": 3}})

	s := receive(t, a)
	assert.Contains(t, s, "event: results.updated")
	assert.Contains(t, s, `"count":3`)
	assertSilent(t, other)
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(session.WithID(context.Background(), "visitor"))
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	b.Publish(Event{Type: EventSearchFailed, Session: "visitor", Data: map[string]string{"error": "boom"}})
	b.Publish(Event{Type: EventResultsUpdated, Session: "someone-else", Data: nil})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: search.failed")
	assert.NotContains(t, body, "results.updated")

	require.Eventually(t, func() bool { return b.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

// flushSpy records how many clients the broker had when the stream was
// first flushed to the client.
type flushSpy struct {
	*httptest.ResponseRecorder
	b             *Broker
	clientsAtOpen int
	flushed       bool
}

func (f *flushSpy) Flush() {
	if !f.flushed {
		f.flushed = true
		f.clientsAtOpen = f.b.ClientCount()
	}
	f.ResponseRecorder.Flush()
}

func TestSSEHandlerSubscribesBeforeOpen(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(session.WithID(context.Background(), "visitor"))
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := &flushSpy{ResponseRecorder: httptest.NewRecorder(), b: b}

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done

	require.True(t, w.flushed)
	assert.Equal(t, 1, w.clientsAtOpen, "client must be registered before the stream opens")
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe("s")
	defer b.Unsubscribe(ch)

	// Buffer holds 64; publishing more must not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: i})
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("s")
	require.Equal(t, 1, b.ClientCount())

	b.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "expected subscriber channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	assert.Equal(t, 0, b.ClientCount())

	// No-ops after close.
	b.Publish(Event{Type: EventHistoryUpdated})
	b.Unsubscribe(ch)
	late := b.Subscribe("late")
	_, ok := <-late
	assert.False(t, ok)
}
