//go:build linux || darwin || freebsd

package libmosq

import (
	"bytes"
	"testing"
	"unsafe"
)

// fakeCMessage builds a cMessage over Go-owned buffers, standing in for
// the engine-owned struct a callback receives.
func fakeCMessage(mid int32, topic string, payload []byte, qos int32, retain bool) *cMessage {
	m := &cMessage{
		mid:    mid,
		topic:  cstr(topic),
		qos:    qos,
		retain: retain,
	}
	if len(payload) > 0 {
		m.payload = unsafe.Pointer(&payload[0])
		m.payloadlen = int32(len(payload))
	}
	return m
}

func TestCloneCopiesFields(t *testing.T) {
	src := fakeCMessage(42, "test/this", []byte("woot"), 1, true)

	msg := src.clone()

	if msg.ID != 42 {
		t.Errorf("ID = %d, want 42", msg.ID)
	}
	if msg.Topic != "test/this" {
		t.Errorf("Topic = %q, want %q", msg.Topic, "test/this")
	}
	if !bytes.Equal(msg.Payload, []byte("woot")) {
		t.Errorf("Payload = %q, want %q", msg.Payload, "woot")
	}
	if msg.QoS != 1 {
		t.Errorf("QoS = %d, want 1", msg.QoS)
	}
	if !msg.Retain {
		t.Error("Retain = false, want true")
	}
}

func TestCloneOwnsPayload(t *testing.T) {
	payload := []byte("original")
	src := fakeCMessage(1, "t", payload, 0, false)

	msg := src.clone()

	// Overwrite the source buffer, as the engine does once the callback
	// returns.
	copy(payload, "clobbered")

	if !bytes.Equal(msg.Payload, []byte("original")) {
		t.Errorf("Payload = %q after source overwrite, want %q", msg.Payload, "original")
	}
}

func TestCloneEmptyPayload(t *testing.T) {
	src := fakeCMessage(7, "empty", nil, 0, false)

	msg := src.clone()

	if msg.Payload != nil {
		t.Errorf("Payload = %v, want nil", msg.Payload)
	}
	if msg.Topic != "empty" {
		t.Errorf("Topic = %q, want %q", msg.Topic, "empty")
	}
}
