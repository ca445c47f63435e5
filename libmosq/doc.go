//go:build linux || darwin || freebsd

// Package libmosq binds the libmosquitto shared library without cgo.
//
// This package is the synchronous, callback-driven face of the engine:
//   - One-time library loading and initialisation (Init)
//   - Client lifecycle (New, Destroy) and network loop ownership
//     (LoopStart, LoopStop)
//   - Non-blocking command submission (Connect, Publish, Subscribe,
//     Unsubscribe, Disconnect) returning engine-assigned message IDs
//   - Completion delivery through the Events interface, invoked from the
//     engine's network loop thread
//
// # Threading
//
// The engine runs its own network loop thread once LoopStart is called.
// All Events methods are invoked from that thread, one at a time. Command
// methods are safe to call from any goroutine, including from inside an
// Events method: the engine serialises internally. Callbacks receive a
// transient Ops value for such re-entry; it must not be retained after
// the callback returns.
//
// # Buffer ownership
//
// Topic strings and payloads handed to callbacks are owned by the engine
// and valid only for the duration of the callback. This package copies
// them into Go-owned memory before Events methods run, so Events
// implementations may retain what they receive.
//
// # Shutdown
//
// Tear a client down in this order: Disconnect (best effort), LoopStop,
// then Destroy. Destroy releases the native handle; no callback fires
// after it returns.
//
// Supported platforms are those with a loadable libmosquitto: Linux,
// macOS and FreeBSD.
package libmosq
