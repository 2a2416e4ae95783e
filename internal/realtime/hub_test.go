package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversInSubscriptionOrder(t *testing.T) {
	h := NewHub()
	var got []string
	h.Subscribe("projects", func(Change) { got = append(got, "first") })
	h.Subscribe("projects", func(Change) { got = append(got, "second") })
	h.Subscribe("blogs", func(Change) { got = append(got, "blogs") })

	h.Publish(Change{Collection: "projects", ID: "p1", Op: OpUpdate})

	assert.Equal(t, []string{"first", "second"}, got)
}

func TestHubPublishFillsOriginAndTime(t *testing.T) {
	h := NewHub()
	var seen Change
	h.Subscribe("home", func(c Change) { seen = c })

	h.Publish(Change{Collection: "home", ID: "h", Op: OpCreate})

	assert.Equal(t, h.Origin(), seen.Origin)
	assert.False(t, seen.At.IsZero())
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	h := NewHub()
	calls := 0
	unsub := h.Subscribe("tools", func(Change) { calls++ })
	other := h.Subscribe("tools", func(Change) {})
	require.Equal(t, 2, h.Listeners("tools"))

	unsub()
	unsub()
	assert.Equal(t, 1, h.Listeners("tools"))

	h.Publish(Change{Collection: "tools"})
	assert.Equal(t, 0, calls)

	other()
	assert.Equal(t, 0, h.Listeners("tools"))
}

func TestHubForwardOnlyOnPublish(t *testing.T) {
	h := NewHub()
	var forwarded []Change
	h.Forward(func(c Change) { forwarded = append(forwarded, c) })

	h.Deliver(Change{Collection: "apps", Origin: "remote"})
	assert.Empty(t, forwarded, "чужие изменения обратно не пересылаются")

	h.Publish(Change{Collection: "apps"})
	require.Len(t, forwarded, 1)
	assert.Equal(t, h.Origin(), forwarded[0].Origin)
}

func TestHubListenerMayUnsubscribeItself(t *testing.T) {
	h := NewHub()
	var unsub func()
	var mu sync.Mutex
	calls := 0
	unsub = h.Subscribe("blogs", func(Change) {
		mu.Lock()
		calls++
		mu.Unlock()
		unsub()
	})

	h.Publish(Change{Collection: "blogs"})
	h.Publish(Change{Collection: "blogs"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, h.Listeners("blogs"))
}
