package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource отдаёт снимок сразу при подписке и по команде push.
type fakeSource struct {
	mu           sync.Mutex
	onData       func(Snapshot)
	unsubscribed int
}

func (s *fakeSource) Subscribe(collection, id string, onData func(Snapshot), onError func(error)) func() {
	s.mu.Lock()
	s.onData = onData
	s.mu.Unlock()
	onData(Snapshot{Collection: collection, ID: id})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unsubscribed++
		s.onData = nil
	}
}

func (s *fakeSource) push(snap Snapshot) {
	s.mu.Lock()
	fn := s.onData
	s.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (s *fakeSource) unsubscribes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribed
}

func TestBindRendersEverySnapshot(t *testing.T) {
	src := &fakeSource{}
	var proj Projection

	stop := Bind(context.Background(), src, "projects", "", proj.Replace, nil)
	defer stop()

	_, version := proj.Current()
	require.Equal(t, 1, version, "первый снимок приходит сразу")

	src.push(Snapshot{Collection: "projects", Documents: nil})
	src.push(Snapshot{Collection: "projects", ID: "last"})

	snap, version := proj.Current()
	assert.Equal(t, 3, version)
	assert.Equal(t, "last", snap.ID)
}

func TestBindStopsOnContextCancel(t *testing.T) {
	src := &fakeSource{}
	ctx, cancel := context.WithCancel(context.Background())

	stop := Bind(ctx, src, "home", "", func(Snapshot) {}, nil)
	cancel()

	require.Eventually(t, func() bool { return src.unsubscribes() == 1 }, time.Second, 5*time.Millisecond)

	stop()
	assert.Equal(t, 1, src.unsubscribes(), "повторная остановка — no-op")
}

func TestBindStopIsIdempotent(t *testing.T) {
	src := &fakeSource{}
	stop := Bind(context.Background(), src, "home", "", func(Snapshot) {}, nil)
	stop()
	stop()
	assert.Equal(t, 1, src.unsubscribes())
}
