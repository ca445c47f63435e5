//go:build linux || darwin || freebsd

package libmosq

import (
	"fmt"
	"sync"
)

// Conn is a raw engine handle carrying the command operations that are
// safe from any goroutine, including from inside Events callbacks. None
// of them blocks on network completion: results arrive through Events,
// keyed by the returned MessageID.
type Conn struct {
	m uintptr
}

// Publish queues an outgoing message and returns its engine-assigned ID.
// Completion is reported via OnPublish.
func (c *Conn) Publish(topic string, payload []byte, qos byte, retain bool) (MessageID, error) {
	if err := checkCString(topic); err != nil {
		return 0, err
	}
	var p *byte
	if len(payload) > 0 {
		p = &payload[0]
	}
	var mid int32
	rc := engine.publish(c.m, &mid, cstr(topic), int32(len(payload)), p, int32(qos), retain)
	if err := result(rc); err != nil {
		return 0, err
	}
	return MessageID(mid), nil
}

// Subscribe requests a subscription to pattern and returns the request's
// engine-assigned ID. The broker's grant arrives via OnSubscribe.
func (c *Conn) Subscribe(pattern string, qos byte) (MessageID, error) {
	if err := checkCString(pattern); err != nil {
		return 0, err
	}
	var mid int32
	rc := engine.subscribe(c.m, &mid, cstr(pattern), int32(qos))
	if err := result(rc); err != nil {
		return 0, err
	}
	return MessageID(mid), nil
}

// Unsubscribe requests removal of a subscription. Completion arrives via
// OnUnsubscribe.
func (c *Conn) Unsubscribe(pattern string) (MessageID, error) {
	if err := checkCString(pattern); err != nil {
		return 0, err
	}
	var mid int32
	rc := engine.unsubscribe(c.m, &mid, cstr(pattern))
	if err := result(rc); err != nil {
		return 0, err
	}
	return MessageID(mid), nil
}

// Disconnect asks the engine to close the connection. OnDisconnect fires
// with rc zero once the socket is down.
func (c *Conn) Disconnect() error {
	return result(engine.disconnect(c.m))
}

// Client owns a native engine instance.
//
// A Client is safe for concurrent use. It must not be used after Destroy.
type Client struct {
	Conn
	token       uintptr
	destroyOnce sync.Once
}

// New allocates a native client. An empty clientID asks the engine to
// generate one, which the engine only permits together with a clean
// session. ev receives every callback for the client's lifetime and must
// not be nil.
func New(clientID string, cleanSession bool, ev Events) (*Client, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, fmt.Errorf("%w: nil Events", ErrCreate)
	}
	if clientID == "" && !cleanSession {
		return nil, fmt.Errorf("%w: engine-assigned client id requires a clean session", ErrCreate)
	}
	if err := checkCString(clientID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	token := handles.register(ev)
	m := engine.newClient(cstrOrNil(clientID), cleanSession, token)
	if m == 0 {
		handles.release(token)
		return nil, ErrCreate
	}

	engine.connectCallbackSet(m, cbConnect)
	engine.disconnectCallbackSet(m, cbDisconnect)
	engine.publishCallbackSet(m, cbPublish)
	engine.subscribeCallbackSet(m, cbSubscribe)
	engine.unsubscribeCallbackSet(m, cbUnsubscribe)
	engine.messageCallbackSet(m, cbMessage)

	return &Client{Conn: Conn{m: m}, token: token}, nil
}

// Connect dials host:port and sends the protocol handshake. The call
// blocks for name resolution and the TCP dial; the broker's CONNACK
// arrives asynchronously via OnConnect. keepalive is in seconds. A
// non-empty bindAddress pins the local network interface.
func (c *Client) Connect(host string, port, keepalive int, bindAddress string) error {
	if host == "" {
		return ErrnoInval
	}
	if err := checkCString(host); err != nil {
		return err
	}
	if err := checkCString(bindAddress); err != nil {
		return err
	}
	if port == 0 {
		port = DefaultPort
	}
	rc := engine.connectBind(c.m, cstr(host), int32(port), int32(keepalive), cstrOrNil(bindAddress))
	return result(rc)
}

// Reconnect re-dials with the parameters of the previous Connect. Do not
// call it from inside a callback; with LoopStart the engine reconnects on
// its own.
func (c *Client) Reconnect() error {
	return result(engine.reconnect(c.m))
}

// LoopStart spawns the engine's network loop thread. Callbacks fire from
// that thread from here on.
func (c *Client) LoopStart() error {
	return result(engine.loopStart(c.m))
}

// LoopStop joins the network loop thread. force abandons the thread
// instead of waiting for a clean disconnect; pass false after a
// successful Disconnect.
func (c *Client) LoopStop(force bool) error {
	return result(engine.loopStop(c.m, force))
}

// Destroy releases the native handle and detaches the callback sink. Stop
// the loop first. No Events method fires after Destroy returns. Destroy
// is idempotent.
func (c *Client) Destroy() {
	c.destroyOnce.Do(func() {
		engine.destroy(c.m)
		handles.release(c.token)
	})
}
