//go:build linux || darwin || freebsd

package libmosq

import "sync"

// handleTable maps the opaque userdata tokens registered with the engine
// back to their Events sinks. The engine never holds a Go pointer: it
// carries the token, and the trampolines resolve it here on every
// callback.
type handleTable struct {
	mu   sync.Mutex
	next uintptr
	sink map[uintptr]Events
}

var handles = handleTable{sink: make(map[uintptr]Events)}

// register stores ev and returns its token. Tokens start at 1 so zero is
// never valid.
func (t *handleTable) register(ev Events) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.sink[t.next] = ev
	return t.next
}

func (t *handleTable) lookup(token uintptr) (Events, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev, ok := t.sink[token]
	return ev, ok
}

func (t *handleTable) release(token uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sink, token)
}
