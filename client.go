package mosq

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mosq-go/mosq/libmosq"
)

// Client is an asynchronous MQTT client over the synchronous engine.
//
// Command methods issue the engine operation and wait for the matching
// acknowledgment under the caller's context. Cancelling the context
// abandons the wait and withdraws the waiter; the wire-level operation
// may still complete unobserved.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Close may run concurrently with in-flight operations; they fail
//     with ErrClientClosed.
type Client struct {
	eng  engine
	h    *handler
	opts Options

	// engMu serialises Close against command issuance so the engine is
	// never entered after Destroy. Commands hold the read side only
	// while issuing, never while waiting.
	engMu sync.RWMutex

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewClient allocates a native engine client, applies opts, and starts
// the engine's network loop. The returned client is ready to Connect.
func NewClient(opts Options) (*Client, error) {
	if opts.MaxPayloadSize == 0 {
		opts.MaxPayloadSize = defaultMaxPayloadSize
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	h := newHandler()
	nc, err := libmosq.New(opts.ClientID, opts.CleanSession, h)
	if err != nil {
		h.inbox.halt()
		return nil, err
	}
	if err := opts.apply(nc); err != nil {
		nc.Destroy()
		h.inbox.halt()
		return nil, err
	}
	if err := nc.LoopStart(); err != nil {
		nc.Destroy()
		h.inbox.halt()
		return nil, fmt.Errorf("%w: starting network loop: %w", ErrConnectFailed, err)
	}

	return newClientWith(nc, h, opts), nil
}

// newClientWith assembles a Client around an existing engine and handler.
// NewClient uses it with the native engine; tests pass a scripted one.
func newClientWith(eng engine, h *handler, opts Options) *Client {
	return &Client{eng: eng, h: h, opts: opts}
}

// SetLogger attaches a logger for bridge anomalies and connection events.
// Passing nil restores silence.
func (c *Client) SetLogger(l Logger) {
	c.h.setLogger(l)
}

// SetMetrics attaches Prometheus instrumentation. Passing nil detaches
// it.
func (c *Client) SetMetrics(m *Metrics) {
	c.h.setMetrics(m)
}

// State reports the observed connection phase.
func (c *Client) State() State {
	return c.h.state.current()
}

// IsConnected reports whether the client currently observes an accepted
// session.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Connect dials the broker and waits for its CONNACK.
//
// host is required. A zero port means 1883; keepalive is the PING
// interval in seconds, zero meaning 60. A non-empty bindAddress pins the
// local network interface.
//
// A broker rejection returns the status along with a
// *ConnectionRefusedError, which is distinguishable from transport
// failures (errors.Is against ErrConnectionRefused). Only one Connect
// may wait at a time; a second concurrent call fails with
// ErrConnectInProgress.
func (c *Client) Connect(ctx context.Context, host string, port, keepalive int, bindAddress string) (ConnectionStatus, error) {
	if host == "" {
		return 0, fmt.Errorf("%w: host cannot be empty", ErrConnectFailed)
	}
	if keepalive == 0 {
		keepalive = libmosq.DefaultKeepalive
	}

	ch, err := c.issueConnect(host, port, keepalive, bindAddress)
	if err != nil {
		return 0, err
	}

	select {
	case status, ok := <-ch:
		if !ok {
			return 0, ErrClientClosed
		}
		if !status.Accepted() {
			return status, &ConnectionRefusedError{Status: status}
		}
		return status, nil
	case <-ctx.Done():
		c.h.disarmConnect(ch)
		return 0, fmt.Errorf("%w: %w", ErrConnectFailed, ctx.Err())
	}
}

// issueConnect arms the connect waiter and sends the handshake while
// holding the engine guard.
func (c *Client) issueConnect(host string, port, keepalive int, bindAddress string) (chan ConnectionStatus, error) {
	c.engMu.RLock()
	defer c.engMu.RUnlock()
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	ch, err := c.h.armConnect()
	if err != nil {
		return nil, err
	}
	c.h.state.fire(eventConnectSent)

	if err := c.eng.Connect(host, port, keepalive, bindAddress); err != nil {
		c.h.disarmConnect(ch)
		c.h.state.fire(eventLost)
		return nil, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}
	c.h.mets().command("connect")
	return ch, nil
}

// Publish queues a message for delivery and waits for the engine's
// completion callback: the end of the QoS handshake for QoS 1 and 2, or
// the handoff to the socket for QoS 0.
//
// Some transports never report completion for QoS 0 publishes, so bound
// them with a context deadline. The engine may deliver the message even
// when the wait is abandoned.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, qos byte, retain bool) (MessageID, error) {
	if topic == "" {
		return 0, ErrInvalidTopic
	}
	if qos > maxQoS {
		return 0, ErrInvalidQoS
	}
	if len(payload) > c.opts.MaxPayloadSize {
		return 0, fmt.Errorf("%w: payload size %d exceeds maximum %d bytes",
			ErrPayloadTooLarge, len(payload), c.opts.MaxPayloadSize)
	}

	id, ch, err := c.issue(func() (MessageID, error) {
		return c.eng.Publish(topic, payload, qos, retain)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	c.h.mets().issued("publish")

	select {
	case _, ok := <-ch:
		if !ok {
			return 0, ErrClientClosed
		}
		return id, nil
	case <-ctx.Done():
		c.h.pend.cancel(id)
		c.h.mets().abandon()
		return 0, fmt.Errorf("%w: %w", ErrPublishFailed, ctx.Err())
	}
}

// Subscribe registers interest in pattern (which may contain + and #
// wildcards) and waits for the broker's grant. It returns the granted
// QoS, which may be lower than requested.
func (c *Client) Subscribe(ctx context.Context, pattern string, qos byte) (byte, error) {
	if pattern == "" {
		return 0, ErrInvalidTopic
	}
	if qos > maxQoS {
		return 0, ErrInvalidQoS
	}

	id, ch, err := c.issue(func() (MessageID, error) {
		return c.eng.Subscribe(pattern, qos)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	c.h.mets().issued("subscribe")

	select {
	case a, ok := <-ch:
		if !ok {
			return 0, ErrClientClosed
		}
		if len(a.granted) == 0 {
			return 0, fmt.Errorf("%w: acknowledgment carried no grant", ErrSubscribeFailed)
		}
		if a.granted[0]&grantRefused != 0 {
			return 0, fmt.Errorf("%w: %s", ErrSubscriptionRefused, pattern)
		}
		return a.granted[0], nil
	case <-ctx.Done():
		c.h.pend.cancel(id)
		c.h.mets().abandon()
		return 0, fmt.Errorf("%w: %w", ErrSubscribeFailed, ctx.Err())
	}
}

// Unsubscribe removes a subscription and waits for the broker's
// acknowledgment. pattern must match the subscribed pattern exactly.
func (c *Client) Unsubscribe(ctx context.Context, pattern string) error {
	if pattern == "" {
		return ErrInvalidTopic
	}

	id, ch, err := c.issue(func() (MessageID, error) {
		return c.eng.Unsubscribe(pattern)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}
	c.h.mets().issued("unsubscribe")

	select {
	case _, ok := <-ch:
		if !ok {
			return ErrClientClosed
		}
		return nil
	case <-ctx.Done():
		c.h.pend.cancel(id)
		c.h.mets().abandon()
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, ctx.Err())
	}
}

// issue runs an engine command through the correlation table while
// holding the engine guard, so Close cannot destroy the engine mid-call.
func (c *Client) issue(cmd func() (MessageID, error)) (MessageID, <-chan ack, error) {
	c.engMu.RLock()
	defer c.engMu.RUnlock()
	return c.h.pend.issue(cmd)
}

// Subscriber returns the inbound message stream. Messages on every
// subscribed topic arrive there in receive order, buffered without bound
// until consumed. The stream exists once per client: the first caller
// takes it, later callers get ErrSubscriberTaken. It closes when the
// client closes.
func (c *Client) Subscriber() (<-chan Message, error) {
	return c.h.inbox.subscriber()
}

// Pending reports the number of operations awaiting acknowledgment.
func (c *Client) Pending() int {
	return c.h.pend.inflight()
}

// Close tears the client down: best-effort disconnect, stop the network
// loop, destroy the engine, then fail every outstanding waiter with
// ErrClientClosed and close the subscriber stream. Close is idempotent
// and safe to call concurrently with in-flight operations.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.engMu.Lock()
		defer c.engMu.Unlock()

		// The disconnect is best effort: the socket may already be
		// down. LoopStop joins the network loop thread, so no callback
		// runs after it returns.
		_ = c.eng.Disconnect()
		_ = c.eng.LoopStop(false)
		c.eng.Destroy()

		c.h.pend.seal()
		n := c.h.pend.failAll()
		c.h.mets().failWaiters(n)
		c.h.failConnect()
		c.h.inbox.halt()
		c.h.state.fire(eventClosed)
	})
	return nil
}
