package autosave

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 40 * time.Millisecond

// fakeSaver запоминает записи; gate (если задан) держит запись до закрытия.
type fakeSaver struct {
	mu       sync.Mutex
	calls    []models.Payload
	fail     error
	gate     chan struct{}
	active   atomic.Int32
	overlaps atomic.Int32
}

func (s *fakeSaver) save(ctx context.Context, fields models.Payload) error {
	if s.active.Add(1) > 1 {
		s.overlaps.Add(1)
	}
	defer s.active.Add(-1)

	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fields.Clone())
	return s.fail
}

func (s *fakeSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeSaver) call(i int) models.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[i]
}

func TestNewRequiresID(t *testing.T) {
	_, err := New("", testDelay, (&fakeSaver{}).save)
	assert.ErrorIs(t, err, ErrUnsavedDocument)
}

func TestEditsCoalesceIntoOneWrite(t *testing.T) {
	s := &fakeSaver{}
	c, err := New("doc", testDelay, s.save)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Edit(models.Payload{"title": "a"}))
	require.NoError(t, c.Edit(models.Payload{"title": "ab"}))
	require.NoError(t, c.Edit(models.Payload{"summary": "x"}))
	assert.Equal(t, StatePending, c.Status().State)
	assert.True(t, c.Status().Dirty)

	require.Eventually(t, func() bool { return s.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)

	assert.Equal(t, 1, s.count(), "серия правок — одна запись")
	assert.Equal(t, models.Payload{"title": "ab", "summary": "x"}, s.call(0))

	st := c.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, st.Dirty)
	assert.Equal(t, 1, st.Writes)
	assert.False(t, st.LastSaved.IsZero())
}

func TestEditResetsTimer(t *testing.T) {
	s := &fakeSaver{}
	c, err := New("doc", 200*time.Millisecond, s.save)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 4; i++ {
		require.NoError(t, c.Edit(models.Payload{"n": float64(i)}))
		time.Sleep(20 * time.Millisecond)
	}
	assert.Equal(t, 0, s.count(), "пока идут правки, запись не начинается")

	require.Eventually(t, func() bool { return s.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, models.Payload{"n": float64(3)}, s.call(0))
}

func TestEditDuringWriteStartsNextCycle(t *testing.T) {
	gate := make(chan struct{})
	s := &fakeSaver{gate: gate}
	c, err := New("doc", testDelay, s.save)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Edit(models.Payload{"title": "first"}))
	require.Eventually(t, func() bool { return c.Status().State == StateWriting }, time.Second, 2*time.Millisecond)

	require.NoError(t, c.Edit(models.Payload{"title": "second"}))
	time.Sleep(3 * testDelay)
	assert.Equal(t, StateWriting, c.Status().State, "новая запись не стартует, пока идёт текущая")

	s.mu.Lock()
	s.gate = nil
	s.mu.Unlock()
	close(gate)

	require.Eventually(t, func() bool { return s.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "first", s.call(0).String("title"))
	assert.Equal(t, "second", s.call(1).String("title"))
	assert.Equal(t, int32(0), s.overlaps.Load())
}

func TestFailedWriteKeepsDraft(t *testing.T) {
	var notified atomic.Int32
	s := &fakeSaver{fail: errors.New("store down")}
	c, err := New("doc", testDelay, s.save, WithNotify(func(st Status, err error) {
		if err != nil {
			notified.Add(1)
		}
	}))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Edit(models.Payload{"title": "a", "summary": "s"}))
	require.Eventually(t, func() bool { return notified.Load() == 1 }, time.Second, 5*time.Millisecond)

	st := c.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.True(t, st.Dirty, "неудачные поля остаются в черновике")
	assert.Equal(t, "store down", st.LastError)

	time.Sleep(3 * testDelay)
	assert.Equal(t, 1, s.count(), "автоматического повтора нет")

	s.mu.Lock()
	s.fail = nil
	s.mu.Unlock()
	require.NoError(t, c.Edit(models.Payload{"title": "b"}))
	require.Eventually(t, func() bool { return s.count() == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, models.Payload{"title": "b", "summary": "s"}, s.call(1))
	require.Eventually(t, func() bool { return c.Status().LastError == "" }, time.Second, 5*time.Millisecond)
}

func TestFlushWritesImmediately(t *testing.T) {
	s := &fakeSaver{}
	c, err := New("doc", time.Hour, s.save)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Flush(context.Background()))
	assert.Equal(t, 0, s.count(), "пустой черновик не пишется")

	require.NoError(t, c.Edit(models.Payload{"title": "now"}))
	require.NoError(t, c.Flush(context.Background()))
	assert.Equal(t, 1, s.count())
	assert.Equal(t, StateIdle, c.Status().State)
}

func TestFlushWaitsForInflightWrite(t *testing.T) {
	gate := make(chan struct{})
	s := &fakeSaver{gate: gate}
	c, err := New("doc", testDelay, s.save)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Edit(models.Payload{"title": "first"}))
	require.Eventually(t, func() bool { return c.Status().State == StateWriting }, time.Second, 2*time.Millisecond)
	require.NoError(t, c.Edit(models.Payload{"summary": "more"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Flush(ctx), context.DeadlineExceeded)

	s.mu.Lock()
	s.gate = nil
	s.mu.Unlock()
	close(gate)

	require.NoError(t, c.Flush(context.Background()))
	require.Eventually(t, func() bool { return s.count() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "more", s.call(1).String("summary"))
	assert.Equal(t, int32(0), s.overlaps.Load())
}

func TestCloseStopsPendingWrite(t *testing.T) {
	s := &fakeSaver{}
	c, err := New("doc", testDelay, s.save)
	require.NoError(t, err)

	require.NoError(t, c.Edit(models.Payload{"title": "lost"}))
	c.Close()
	time.Sleep(3 * testDelay)

	assert.Equal(t, 0, s.count())
	assert.ErrorIs(t, c.Edit(models.Payload{"title": "x"}), ErrClosed)
}
