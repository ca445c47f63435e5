package mosq

import "sync"

// ack is the completion record delivered to a waiting caller.
type ack struct {
	// granted carries the broker-granted QoS values of a subscribe
	// acknowledgment; empty for publish and unsubscribe completions.
	granted []byte
}

// pending is the correlation table between engine-assigned message IDs
// and the callers awaiting their acknowledgment.
//
// issue runs the engine command while holding the table lock, so the
// waiter is always registered before the network loop thread can look the
// ID up: an acknowledgment can block briefly on the lock but can never
// arrive "early" and miss its waiter.
type pending struct {
	mu      sync.Mutex
	waiters map[MessageID]chan ack
	closed  bool
}

func newPending() *pending {
	return &pending{waiters: make(map[MessageID]chan ack)}
}

// issue runs cmd under the table lock and registers a waiter for the ID
// it returns. The channel delivers exactly one ack, or closes without a
// value if the client shuts down first.
func (p *pending) issue(cmd func() (MessageID, error)) (MessageID, <-chan ack, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, nil, ErrClientClosed
	}
	id, err := cmd()
	if err != nil {
		return 0, nil, err
	}
	ch := make(chan ack, 1)
	p.waiters[id] = ch
	return id, ch, nil
}

// resolve completes the waiter registered under id, reporting false for
// an unknown (abandoned, already resolved, or never issued) ID. The send
// happens outside the lock on a buffered channel: the network loop thread
// never blocks here, whether or not the caller is still listening.
func (p *pending) resolve(id MessageID, a ack) bool {
	p.mu.Lock()
	ch, ok := p.waiters[id]
	if ok {
		delete(p.waiters, id)
	}
	p.mu.Unlock()
	if !ok {
		return false
	}
	ch <- a
	return true
}

// cancel removes an abandoned waiter. A later acknowledgment for the same
// ID resolves to a miss.
func (p *pending) cancel(id MessageID) {
	p.mu.Lock()
	delete(p.waiters, id)
	p.mu.Unlock()
}

// seal rejects all future issues without touching existing waiters.
func (p *pending) seal() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// failAll closes every outstanding waiter channel, waking the callers
// empty-handed, and returns how many there were. Callers must seal first.
func (p *pending) failAll() int {
	p.mu.Lock()
	ws := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, ch := range ws {
		close(ch)
	}
	return len(ws)
}

// inflight reports the number of outstanding waiters.
func (p *pending) inflight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiters)
}
