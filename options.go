package mosq

import (
	"fmt"
	"time"

	"github.com/mosq-go/mosq/libmosq"
)

// Limits.
const (
	// maxQoS is the highest valid QoS level.
	maxQoS = 2

	// defaultMaxPayloadSize bounds outgoing payloads (1MB), aligning
	// with typical broker limits.
	defaultMaxPayloadSize = 1 << 20

	// grantRefused marks a failed subscription in a broker's grant.
	grantRefused = 0x80

	// maxFlowWindow bounds the v5 send/receive maxima.
	maxFlowWindow = 65535
)

// WillOptions configures the message the broker publishes on the client's
// behalf if the connection dies without a clean disconnect.
type WillOptions struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// TLSOptions points the engine at PEM certificate material. One of CAFile
// and CAPath is required; CertFile and KeyFile enable mutual TLS.
type TLSOptions struct {
	CAFile   string
	CAPath   string
	CertFile string
	KeyFile  string

	// Insecure disables hostname verification. Test brokers only.
	Insecure bool
}

// ReconnectOptions shapes the engine's automatic reconnect backoff.
// Delays are rounded down to whole seconds.
type ReconnectOptions struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Exponential  bool
}

// Options configures a Client. Start from DefaultOptions and override
// what you need.
type Options struct {
	// ClientID identifies the session to the broker. Empty asks the
	// engine to generate one, which requires CleanSession.
	ClientID string

	// CleanSession discards broker-side session state on connect.
	CleanSession bool

	// Username and Password authenticate against the broker. An empty
	// Username disables authentication.
	Username string
	Password string

	// Will, when non-nil, registers a last-will message.
	Will *WillOptions

	// TLS, when non-nil, encrypts the connection with the given
	// material.
	TLS *TLSOptions

	// ProtocolVersion selects the MQTT revision: libmosq.ProtocolV31,
	// ProtocolV311 or ProtocolV5. Zero keeps the engine default
	// (v3.1.1).
	ProtocolVersion int

	// SendMaximum and ReceiveMaximum bound the in-flight QoS>0 windows
	// (MQTT v5 flow control). Zero keeps the engine defaults.
	SendMaximum    int
	ReceiveMaximum int

	// Reconnect, when non-nil, overrides the engine's reconnect
	// backoff.
	Reconnect *ReconnectOptions

	// MaxPayloadSize bounds outgoing payload length in bytes. Zero
	// means the 1MB default.
	MaxPayloadSize int
}

// DefaultOptions returns the baseline configuration: engine-assigned
// client ID, clean session, engine-default protocol version, 1MB payload
// ceiling.
func DefaultOptions() Options {
	return Options{
		CleanSession:   true,
		MaxPayloadSize: defaultMaxPayloadSize,
	}
}

// validate reports the first configuration problem.
func (o *Options) validate() error {
	if o.ClientID == "" && !o.CleanSession {
		return fmt.Errorf("%w: engine-assigned client id requires CleanSession", ErrInvalidOptions)
	}
	if o.Will != nil {
		if o.Will.Topic == "" {
			return fmt.Errorf("%w: will topic cannot be empty", ErrInvalidOptions)
		}
		if o.Will.QoS > maxQoS {
			return fmt.Errorf("%w: will QoS %d out of range", ErrInvalidOptions, o.Will.QoS)
		}
	}
	if o.TLS != nil && o.TLS.CAFile == "" && o.TLS.CAPath == "" {
		return fmt.Errorf("%w: TLS requires CAFile or CAPath", ErrInvalidOptions)
	}
	switch o.ProtocolVersion {
	case 0, libmosq.ProtocolV31, libmosq.ProtocolV311, libmosq.ProtocolV5:
	default:
		return fmt.Errorf("%w: unknown protocol version %d", ErrInvalidOptions, o.ProtocolVersion)
	}
	if o.SendMaximum < 0 || o.SendMaximum > maxFlowWindow {
		return fmt.Errorf("%w: SendMaximum %d out of range", ErrInvalidOptions, o.SendMaximum)
	}
	if o.ReceiveMaximum < 0 || o.ReceiveMaximum > maxFlowWindow {
		return fmt.Errorf("%w: ReceiveMaximum %d out of range", ErrInvalidOptions, o.ReceiveMaximum)
	}
	if o.Reconnect != nil {
		if o.Reconnect.InitialDelay < time.Second || o.Reconnect.MaxDelay < o.Reconnect.InitialDelay {
			return fmt.Errorf("%w: reconnect delays must satisfy 1s <= initial <= max", ErrInvalidOptions)
		}
	}
	if o.MaxPayloadSize < 0 {
		return fmt.Errorf("%w: MaxPayloadSize cannot be negative", ErrInvalidOptions)
	}
	return nil
}

// apply pushes the option set into a freshly created native client.
func (o *Options) apply(nc *libmosq.Client) error {
	if o.Username != "" {
		if err := nc.SetUsernamePassword(o.Username, o.Password); err != nil {
			return fmt.Errorf("%w: credentials: %w", ErrInvalidOptions, err)
		}
	}
	if o.Will != nil {
		if err := nc.SetWill(o.Will.Topic, o.Will.Payload, o.Will.QoS, o.Will.Retain); err != nil {
			return fmt.Errorf("%w: will: %w", ErrInvalidOptions, err)
		}
	}
	if o.TLS != nil {
		if err := nc.SetTLS(o.TLS.CAFile, o.TLS.CAPath, o.TLS.CertFile, o.TLS.KeyFile); err != nil {
			return fmt.Errorf("%w: tls: %w", ErrInvalidOptions, err)
		}
		if o.TLS.Insecure {
			if err := nc.SetTLSInsecure(true); err != nil {
				return fmt.Errorf("%w: tls: %w", ErrInvalidOptions, err)
			}
		}
	}
	if o.ProtocolVersion != 0 {
		if err := nc.SetProtocolVersion(o.ProtocolVersion); err != nil {
			return fmt.Errorf("%w: protocol version: %w", ErrInvalidOptions, err)
		}
	}
	if o.SendMaximum != 0 {
		if err := nc.SetSendMaximum(o.SendMaximum); err != nil {
			return fmt.Errorf("%w: send maximum: %w", ErrInvalidOptions, err)
		}
	}
	if o.ReceiveMaximum != 0 {
		if err := nc.SetReceiveMaximum(o.ReceiveMaximum); err != nil {
			return fmt.Errorf("%w: receive maximum: %w", ErrInvalidOptions, err)
		}
	}
	if o.Reconnect != nil {
		if err := nc.SetReconnectDelay(o.Reconnect.InitialDelay, o.Reconnect.MaxDelay, o.Reconnect.Exponential); err != nil {
			return fmt.Errorf("%w: reconnect delay: %w", ErrInvalidOptions, err)
		}
	}
	return nil
}
