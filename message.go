package mosq

import "github.com/mosq-go/mosq/libmosq"

// MessageID identifies an in-flight operation. IDs are engine-assigned
// and recycled once the operation completes, so they are only meaningful
// while the operation is outstanding.
type MessageID = libmosq.MessageID

// Message is an inbound application message as delivered on the
// Subscriber stream. All fields are owned copies and may be retained.
type Message = libmosq.Message

// QoS levels.
const (
	QoSAtMostOnce  byte = 0
	QoSAtLeastOnce byte = 1
	QoSExactlyOnce byte = 2
)
