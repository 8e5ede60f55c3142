package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToProjectSubscribers(t *testing.T) {
	h := NewHub(4)

	a, cancelA := h.Subscribe("p1")
	defer cancelA()
	b, cancelB := h.Subscribe("p1")
	defer cancelB()
	other, cancelOther := h.Subscribe("p2")
	defer cancelOther()

	h.Publish("p1", ActionFileAdded)

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, "p1", ev.ProjectID)
			assert.Equal(t, ActionFileAdded, ev.Action)
			assert.False(t, ev.At.IsZero())
		default:
			t.Fatal("expected an event")
		}
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event for other project: %+v", ev)
	default:
	}
}

func TestHub_CancelUnsubscribes(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe("p1")
	require.Equal(t, 1, h.Subscribers("p1"))

	cancel()
	cancel()

	assert.Equal(t, 0, h.Subscribers("p1"))
	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic on the closed channel.
	h.Publish("p1", ActionFileDeleted)
}

func TestHub_PublishDoesNotBlock(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe("p1")
	defer cancel()

	h.Publish("p1", ActionFileAdded)
	h.Publish("p1", ActionFileDeleted)

	ev := <-ch
	assert.Equal(t, ActionFileAdded, ev.Action)
	select {
	case ev := <-ch:
		t.Fatalf("second event should have been dropped, got %+v", ev)
	default:
	}
}

func TestHub_Concurrent(t *testing.T) {
	h := NewHub(8)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancel := h.Subscribe("p1")
			cancel()
		}()
		go func() {
			defer wg.Done()
			h.Publish("p1", ActionFileAdded)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, h.Subscribers("p1"))
}

func TestHub_Close(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe("p1")

	h.Close()
	_, ok := <-ch
	assert.False(t, ok, "subscription should be closed")
	assert.Equal(t, 0, h.Subscribers("p1"))
	assert.NotPanics(t, cancel)
	assert.NotPanics(t, func() { h.Publish("p1", ActionFileAdded) })

	late, lateCancel := h.Subscribe("p1")
	defer lateCancel()
	_, ok = <-late
	assert.False(t, ok)
}
