package mosq

import "sync"

// fanout is the inbound delivery queue: multi-producer, single-consumer,
// unbounded, FIFO. push never blocks its caller — the engine's network
// loop thread — no matter how slow the consumer is.
type fanout struct {
	mu      sync.Mutex
	queue   []Message
	taken   bool
	stopped bool

	wake chan struct{}
	quit chan struct{}
	out  chan Message
}

func newFanout() *fanout {
	f := &fanout{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		out:  make(chan Message),
	}
	go f.pump()
	return f
}

// push enqueues m for delivery, reporting false once the queue has been
// halted.
func (f *fanout) push(m Message) bool {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return false
	}
	f.queue = append(f.queue, m)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
	return true
}

// subscriber hands out the delivery stream. There is one stream per
// queue: the first caller takes it, later callers get ErrSubscriberTaken.
// The stream closes when the queue halts.
func (f *fanout) subscriber() (<-chan Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.taken {
		return nil, ErrSubscriberTaken
	}
	f.taken = true
	return f.out, nil
}

// halt stops delivery, discards anything undelivered, and closes the
// stream. Idempotent.
func (f *fanout) halt() {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.stopped = true
	f.queue = nil
	f.mu.Unlock()
	close(f.quit)
}

// depth reports the number of undelivered messages.
func (f *fanout) depth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// pump moves messages from the queue to the consumer in push order.
func (f *fanout) pump() {
	defer close(f.out)
	for {
		f.mu.Lock()
		var m Message
		have := len(f.queue) > 0
		if have {
			m = f.queue[0]
			f.queue = f.queue[1:]
		}
		f.mu.Unlock()

		if !have {
			select {
			case <-f.wake:
				continue
			case <-f.quit:
				return
			}
		}

		select {
		case f.out <- m:
		case <-f.quit:
			return
		}
	}
}
