package mosq

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// =============================================================================
// Fan-out Tests
// =============================================================================

func TestFanoutDeliversInOrder(t *testing.T) {
	f := newFanout()
	defer f.halt()

	ch, err := f.subscriber()
	if err != nil {
		t.Fatalf("subscriber() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		if !f.push(Message{Topic: fmt.Sprintf("t/%d", i)}) {
			t.Fatalf("push(%d) = false, want true", i)
		}
	}

	for i := 0; i < 5; i++ {
		select {
		case m := <-ch:
			if want := fmt.Sprintf("t/%d", i); m.Topic != want {
				t.Errorf("message %d topic = %q, want %q", i, m.Topic, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("message %d never delivered", i)
		}
	}
}

// TestFanoutBuffersBeforeTake pushes a burst before anyone consumes:
// push must never block the producer, and nothing may be dropped.
func TestFanoutBuffersBeforeTake(t *testing.T) {
	f := newFanout()
	defer f.halt()

	const n = 1000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			f.push(Message{ID: MessageID(i)})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("push blocked without a consumer")
	}

	ch, err := f.subscriber()
	if err != nil {
		t.Fatalf("subscriber() error = %v", err)
	}
	for i := 0; i < n; i++ {
		select {
		case m := <-ch:
			if m.ID != MessageID(i) {
				t.Fatalf("message %d ID = %d, want %d", i, m.ID, i)
			}
		case <-time.After(time.Second):
			t.Fatalf("message %d never delivered", i)
		}
	}
}

func TestFanoutSubscriberTakenOnce(t *testing.T) {
	f := newFanout()
	defer f.halt()

	if _, err := f.subscriber(); err != nil {
		t.Fatalf("subscriber() error = %v", err)
	}
	if _, err := f.subscriber(); !errors.Is(err, ErrSubscriberTaken) {
		t.Errorf("second subscriber() error = %v, want ErrSubscriberTaken", err)
	}
}

func TestFanoutHaltClosesStream(t *testing.T) {
	f := newFanout()

	ch, err := f.subscriber()
	if err != nil {
		t.Fatalf("subscriber() error = %v", err)
	}

	f.halt()
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("stream delivered a message after halt, want close")
		}
	case <-time.After(time.Second):
		t.Fatal("stream never closed after halt")
	}
}

func TestFanoutPushAfterHalt(t *testing.T) {
	f := newFanout()
	f.halt()

	if f.push(Message{Topic: "late"}) {
		t.Error("push() = true after halt, want false")
	}
}

func TestFanoutHaltDiscardsQueued(t *testing.T) {
	f := newFanout()

	for i := 0; i < 10; i++ {
		f.push(Message{ID: MessageID(i)})
	}
	f.halt()

	if d := f.depth(); d != 0 {
		t.Errorf("depth() = %d after halt, want 0", d)
	}
}

func TestFanoutHaltIdempotent(t *testing.T) {
	f := newFanout()
	f.halt()
	f.halt()
}
