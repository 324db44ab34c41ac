package realtime

import "testing"

func TestBroadcastReachesListeners(t *testing.T) {
	h := NewHub(4)
	id1, ch1 := h.Register()
	_, ch2 := h.Register()
	if h.Size() != 2 {
		t.Fatalf("size = %d", h.Size())
	}

	if dropped := h.Broadcast(Event{Type: TypeChange, Revision: 7}); dropped != 0 {
		t.Fatalf("dropped = %d", dropped)
	}
	for _, ch := range []<-chan Event{ch1, ch2} {
		ev := <-ch
		if ev.Revision != 7 || ev.At.IsZero() {
			t.Fatalf("event = %+v", ev)
		}
	}

	h.Unregister(id1)
	h.Unregister(id1)
	if _, ok := <-ch1; ok {
		t.Fatal("channel should be closed")
	}
	if h.Size() != 1 {
		t.Fatalf("size = %d", h.Size())
	}
}

func TestSlowListenerDrops(t *testing.T) {
	h := NewHub(1)
	_, ch := h.Register()
	h.Broadcast(Event{Revision: 1})
	if dropped := h.Broadcast(Event{Revision: 2}); dropped != 1 {
		t.Fatalf("dropped = %d", dropped)
	}
	if ev := <-ch; ev.Revision != 1 {
		t.Fatalf("kept revision %d", ev.Revision)
	}
}
