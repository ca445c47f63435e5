//go:build linux || darwin || freebsd

package libmosq

import "time"

// Engine defaults.
const (
	// DefaultPort is the conventional plaintext MQTT port.
	DefaultPort = 1883

	// DefaultKeepalive is the keepalive interval, in seconds, used by
	// callers that have no opinion.
	DefaultKeepalive = 60
)

// Protocol versions accepted by SetProtocolVersion.
const (
	ProtocolV31  = 3
	ProtocolV311 = 4
	ProtocolV5   = 5
)

// mosq_opt_t values used by the integer option setters.
const (
	optProtocolVersion int32 = 1
	optReceiveMaximum  int32 = 4
	optSendMaximum     int32 = 5
)

// maxFlowWindow bounds the v5 send/receive maxima (16-bit on the wire).
const maxFlowWindow = 65535

// All option setters must be called before Connect.

// SetUsernamePassword configures broker authentication. An empty username
// clears both values and disables authentication.
func (c *Client) SetUsernamePassword(username, password string) error {
	if err := checkCString(username); err != nil {
		return err
	}
	if err := checkCString(password); err != nil {
		return err
	}
	return result(engine.usernamePwSet(c.m, cstrOrNil(username), cstrOrNil(password)))
}

// SetWill registers the message the broker publishes on this client's
// behalf if the connection dies without a clean disconnect.
func (c *Client) SetWill(topic string, payload []byte, qos byte, retain bool) error {
	if topic == "" {
		return ErrnoInval
	}
	if err := checkCString(topic); err != nil {
		return err
	}
	var p *byte
	if len(payload) > 0 {
		p = &payload[0]
	}
	return result(engine.willSet(c.m, cstr(topic), int32(len(payload)), p, int32(qos), retain))
}

// ClearWill removes a previously registered will.
func (c *Client) ClearWill() error {
	return result(engine.willClear(c.m))
}

// SetTLS points the engine at PEM certificate material. Exactly one of
// caFile and caPath is required; certFile and keyFile configure mutual
// TLS and may both be empty.
func (c *Client) SetTLS(caFile, caPath, certFile, keyFile string) error {
	if caFile == "" && caPath == "" {
		return ErrnoInval
	}
	for _, s := range []string{caFile, caPath, certFile, keyFile} {
		if err := checkCString(s); err != nil {
			return err
		}
	}
	return result(engine.tlsSet(c.m, cstrOrNil(caFile), cstrOrNil(caPath), cstrOrNil(certFile), cstrOrNil(keyFile), 0))
}

// SetTLSInsecure disables certificate hostname verification. For test
// brokers only.
func (c *Client) SetTLSInsecure(insecure bool) error {
	return result(engine.tlsInsecureSet(c.m, insecure))
}

// SetProtocolVersion selects the MQTT protocol revision: ProtocolV31,
// ProtocolV311 or ProtocolV5. The engine default is v3.1.1.
func (c *Client) SetProtocolVersion(version int) error {
	switch version {
	case ProtocolV31, ProtocolV311, ProtocolV5:
	default:
		return ErrnoInval
	}
	return result(engine.intOption(c.m, optProtocolVersion, int32(version)))
}

// SetSendMaximum bounds how many outgoing QoS>0 messages may be in flight
// at once (MQTT v5 flow control).
func (c *Client) SetSendMaximum(n int) error {
	if n < 1 || n > maxFlowWindow {
		return ErrnoInval
	}
	return result(engine.intOption(c.m, optSendMaximum, int32(n)))
}

// SetReceiveMaximum bounds how many inbound QoS>0 messages the broker may
// have in flight at once (MQTT v5 flow control).
func (c *Client) SetReceiveMaximum(n int) error {
	if n < 1 || n > maxFlowWindow {
		return ErrnoInval
	}
	return result(engine.intOption(c.m, optReceiveMaximum, int32(n)))
}

// SetReconnectDelay shapes the engine's automatic reconnect backoff.
// Delays are rounded down to whole seconds.
func (c *Client) SetReconnectDelay(initial, max time.Duration, exponential bool) error {
	if initial < time.Second || max < initial {
		return ErrnoInval
	}
	return result(engine.reconnectDelaySet(c.m, uint32(initial/time.Second), uint32(max/time.Second), exponential))
}
