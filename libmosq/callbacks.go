//go:build linux || darwin || freebsd

package libmosq

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// Events receives engine callbacks. All methods run on the engine's
// network loop thread, one at a time per client. Implementations must not
// block: hand work to channels or keep critical sections short, and never
// hold a lock while calling back into the engine through ops.
type Events interface {
	// OnConnect delivers the broker's CONNACK result. It fires for the
	// initial connection and for every automatic reconnect.
	OnConnect(ops Ops, code ConnackCode)

	// OnDisconnect reports a dropped connection. rc is zero when the
	// disconnect was client-requested, an engine code otherwise.
	OnDisconnect(ops Ops, rc Errno)

	// OnPublish confirms the publish with this ID has completed its
	// QoS handshake (or, for QoS 0, left the client).
	OnPublish(ops Ops, id MessageID)

	// OnSubscribe confirms a subscription. granted holds one
	// broker-granted QoS per requested pattern, 0x80 marking a refusal.
	OnSubscribe(ops Ops, id MessageID, granted []byte)

	// OnUnsubscribe confirms an unsubscription.
	OnUnsubscribe(ops Ops, id MessageID)

	// OnMessage delivers an inbound application message. m is Go-owned
	// and may be retained.
	OnMessage(ops Ops, m Message)
}

// Ops is the command surface a callback may re-enter. The value passed to
// an Events method is valid only for the duration of that call; do not
// retain it.
type Ops interface {
	Publish(topic string, payload []byte, qos byte, retain bool) (MessageID, error)
	Subscribe(pattern string, qos byte) (MessageID, error)
	Unsubscribe(pattern string) (MessageID, error)
	Disconnect() error
}

// The six trampolines are allocated once at package load: the engine
// receives the same function pointers for every client and tells them
// apart by userdata token.
var (
	cbConnect     = purego.NewCallback(onConnect)
	cbDisconnect  = purego.NewCallback(onDisconnect)
	cbPublish     = purego.NewCallback(onPublish)
	cbSubscribe   = purego.NewCallback(onSubscribe)
	cbUnsubscribe = purego.NewCallback(onUnsubscribe)
	cbMessage     = purego.NewCallback(onMessage)
)

func onConnect(m, token uintptr, rc int32) uintptr {
	if ev, ok := handles.lookup(token); ok {
		ev.OnConnect(&Conn{m: m}, ConnackCode(rc))
	}
	return 0
}

func onDisconnect(m, token uintptr, rc int32) uintptr {
	if ev, ok := handles.lookup(token); ok {
		ev.OnDisconnect(&Conn{m: m}, Errno(rc))
	}
	return 0
}

func onPublish(m, token uintptr, mid int32) uintptr {
	if ev, ok := handles.lookup(token); ok {
		ev.OnPublish(&Conn{m: m}, MessageID(mid))
	}
	return 0
}

func onSubscribe(m, token uintptr, mid, qosCount int32, granted *int32) uintptr {
	ev, ok := handles.lookup(token)
	if !ok {
		return 0
	}
	gs := make([]byte, 0, qosCount)
	if granted != nil {
		for _, q := range unsafe.Slice(granted, qosCount) {
			gs = append(gs, byte(q))
		}
	}
	ev.OnSubscribe(&Conn{m: m}, MessageID(mid), gs)
	return 0
}

func onUnsubscribe(m, token uintptr, mid int32) uintptr {
	if ev, ok := handles.lookup(token); ok {
		ev.OnUnsubscribe(&Conn{m: m}, MessageID(mid))
	}
	return 0
}

func onMessage(m, token uintptr, msg *cMessage) uintptr {
	if msg == nil {
		return 0
	}
	if ev, ok := handles.lookup(token); ok {
		ev.OnMessage(&Conn{m: m}, msg.clone())
	}
	return 0
}
