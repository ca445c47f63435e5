//go:build linux || darwin || freebsd

package libmosq

import "unsafe"

// MessageID identifies an in-flight operation. IDs are engine-assigned,
// 16 bits on the wire, and recycled once the operation completes.
type MessageID int32

// Message is an inbound application message. All fields are Go-owned
// copies; retaining a Message beyond the callback that delivered it is
// safe.
type Message struct {
	ID      MessageID
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// cMessage mirrors struct mosquitto_message. Field order and widths must
// match the C layout exactly.
type cMessage struct {
	mid        int32
	topic      *byte
	payload    unsafe.Pointer
	payloadlen int32
	qos        int32
	retain     bool
}

// clone copies an engine-owned message into Go memory. The engine frees
// its buffers as soon as the callback returns.
func (m *cMessage) clone() Message {
	msg := Message{
		ID:     MessageID(m.mid),
		Topic:  goString(m.topic),
		QoS:    byte(m.qos),
		Retain: m.retain,
	}
	if m.payload != nil && m.payloadlen > 0 {
		msg.Payload = append([]byte(nil), unsafe.Slice((*byte)(m.payload), m.payloadlen)...)
	}
	return msg
}
