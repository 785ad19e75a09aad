package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncBusDeliversInRegistrationOrder(t *testing.T) {
	bus := NewSyncBus()
	var order []string
	bus.AddListener(NewListener("first", func(Event) { order = append(order, "first") }))
	bus.AddListener(NewListener("second", func(Event) { order = append(order, "second") }))

	bus.Publish(NewGenericEvent("tick", nil))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSyncBusFiltersBySupports(t *testing.T) {
	bus := NewSyncBus()
	var got []string
	bus.AddListener(NewListener("picky", func(e Event) {
		got = append(got, e.EventName())
	}).On("wanted"))

	bus.Publish(NewGenericEvent("wanted", nil))
	bus.Publish(NewGenericEvent("ignored", nil))
	assert.Equal(t, []string{"wanted"}, got)
}

func TestSyncBusRemoveListener(t *testing.T) {
	bus := NewSyncBus()
	calls := 0
	bus.AddListener(NewListener("gone", func(Event) { calls++ }))
	require.Equal(t, 1, bus.ListenerCount())

	bus.RemoveListener("gone")
	bus.RemoveListener("never-existed")
	assert.Equal(t, 0, bus.ListenerCount())

	bus.Publish(NewGenericEvent("tick", nil))
	assert.Equal(t, 0, calls)
}

func TestSyncBusSurvivesPanickingListener(t *testing.T) {
	bus := NewSyncBus()
	var survived bool
	bus.AddListener(NewListener("explosive", func(Event) { panic("bang") }))
	bus.AddListener(NewListener("calm", func(Event) { survived = true }))

	assert.NotPanics(t, func() {
		bus.Publish(NewGenericEvent("tick", nil))
	})
	assert.True(t, survived)
}

func TestTypedListener(t *testing.T) {
	bus := NewSyncBus()
	var seen []*ApplicationStartedEvent
	bus.AddListener(Typed("audit", func(e *ApplicationStartedEvent) {
		seen = append(seen, e)
	}))

	started := NewApplicationStartedEvent("demo", 125*time.Millisecond)
	bus.Publish(started)
	bus.Publish(NewApplicationShutdownEvent("demo"))
	bus.Publish(NewGenericEvent("ApplicationStartedEvent", nil)) // name matches, type does not

	require.Len(t, seen, 1)
	assert.Same(t, started, seen[0])
	assert.Equal(t, "demo", seen[0].AppName)
	assert.NotEmpty(t, seen[0].ID)
}

func TestAsyncBusPreservesPerListenerOrder(t *testing.T) {
	bus := NewAsyncBus()
	defer bus.Close()

	const n = 50
	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	bus.AddListener(NewListener("collector", func(e Event) {
		mu.Lock()
		got = append(got, e.EventName())
		if len(got) == n {
			close(done)
		}
		mu.Unlock()
	}))

	want := make([]string, n)
	for i := 0; i < n; i++ {
		name := "evt-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		want[i] = name
		bus.Publish(NewGenericEvent(name, nil))
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for async delivery")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}

func TestAsyncBusRemoveStopsDelivery(t *testing.T) {
	bus := NewAsyncBus()
	defer bus.Close()

	delivered := make(chan struct{}, 8)
	bus.AddListener(NewListener("short-lived", func(Event) {
		delivered <- struct{}{}
	}))

	bus.Publish(NewGenericEvent("one", nil))
	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("first event never arrived")
	}

	bus.RemoveListener("short-lived")
	assert.Equal(t, 0, bus.ListenerCount())
	assert.NotPanics(t, func() {
		bus.Publish(NewGenericEvent("two", nil))
	})
}
