package mosq

import (
	"sync"

	"github.com/mosq-go/mosq/libmosq"
)

// handler is the callback sink bridging the engine's network loop thread
// into the correlation table and the fan-out queue. Bridge rules: copy
// fast, never block on a channel send, and never hold a lock across a
// re-entered engine call.
type handler struct {
	pend  *pending
	inbox *fanout
	state *connState

	// connect correlation: at most one local Connect waits at a time.
	connMu    sync.Mutex
	connectCh chan ConnectionStatus

	logMu sync.RWMutex
	log   Logger

	metMu sync.RWMutex
	met   *Metrics
}

func newHandler() *handler {
	return &handler{
		pend:  newPending(),
		inbox: newFanout(),
		state: newConnState(),
		log:   noopLogger{},
	}
}

func (h *handler) logger() Logger {
	h.logMu.RLock()
	defer h.logMu.RUnlock()
	return h.log
}

func (h *handler) setLogger(l Logger) {
	h.logMu.Lock()
	if l == nil {
		l = noopLogger{}
	}
	h.log = l
	h.logMu.Unlock()
}

func (h *handler) mets() *Metrics {
	h.metMu.RLock()
	defer h.metMu.RUnlock()
	return h.met
}

func (h *handler) setMetrics(m *Metrics) {
	h.metMu.Lock()
	h.met = m
	h.metMu.Unlock()
}

// armConnect registers the connect waiter, failing if an earlier Connect
// is still waiting for its answer.
func (h *handler) armConnect() (chan ConnectionStatus, error) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.connectCh != nil {
		return nil, ErrConnectInProgress
	}
	ch := make(chan ConnectionStatus, 1)
	h.connectCh = ch
	return ch, nil
}

// disarmConnect abandons ch if it is still the registered waiter.
func (h *handler) disarmConnect(ch chan ConnectionStatus) {
	h.connMu.Lock()
	if h.connectCh == ch {
		h.connectCh = nil
	}
	h.connMu.Unlock()
}

// takeConnect claims the waiter for resolution.
func (h *handler) takeConnect() chan ConnectionStatus {
	h.connMu.Lock()
	ch := h.connectCh
	h.connectCh = nil
	h.connMu.Unlock()
	return ch
}

// failConnect wakes a waiting Connect empty-handed during shutdown.
func (h *handler) failConnect() {
	if ch := h.takeConnect(); ch != nil {
		close(ch)
	}
}

// OnConnect resolves the waiting Connect, if any. With the engine's
// automatic reconnect there may be none; the state mirror still advances.
func (h *handler) OnConnect(_ libmosq.Ops, code libmosq.ConnackCode) {
	if code.Accepted() {
		h.state.fire(eventAccepted)
	} else {
		h.state.fire(eventRefused)
	}
	h.mets().connack(code.Accepted())

	if ch := h.takeConnect(); ch != nil {
		ch <- code
	}
}

// OnDisconnect reports a dropped connection. rc is zero for a
// client-requested disconnect.
func (h *handler) OnDisconnect(_ libmosq.Ops, rc libmosq.Errno) {
	h.state.fire(eventLost)
	if rc != 0 {
		h.logger().Warn("connection lost", "error", rc)
		h.mets().connectionLost()
	}
}

func (h *handler) OnPublish(_ libmosq.Ops, id libmosq.MessageID) {
	h.complete("publish", id, ack{})
}

func (h *handler) OnSubscribe(_ libmosq.Ops, id libmosq.MessageID, granted []byte) {
	h.complete("subscribe", id, ack{granted: granted})
}

func (h *handler) OnUnsubscribe(_ libmosq.Ops, id libmosq.MessageID) {
	h.complete("unsubscribe", id, ack{})
}

// complete resolves id against the correlation table. A miss — a late
// acknowledgment for an abandoned call, or an engine duplicate — is an
// anomaly: it is logged and dropped, and the connection stays up.
func (h *handler) complete(op string, id MessageID, a ack) {
	if h.pend.resolve(id, a) {
		h.mets().acked(op)
		return
	}
	h.logger().Warn("acknowledgment without waiter dropped", "op", op, "mid", int32(id))
	h.mets().anomaly("resolve_miss")
}

// OnMessage moves an inbound message into the fan-out queue. A halted
// queue means the client is shutting down: drop the message and ask the
// engine to disconnect, best effort.
func (h *handler) OnMessage(ops libmosq.Ops, m libmosq.Message) {
	if h.inbox.push(m) {
		h.mets().message()
		return
	}
	h.logger().Warn("inbound message after fan-out halt, disconnecting", "topic", m.Topic)
	h.mets().anomaly("fanout_halted")
	_ = ops.Disconnect()
}
