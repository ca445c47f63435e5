package mosq

import "github.com/mosq-go/mosq/libmosq"

// ConnectionStatus is the broker's answer to a connection attempt,
// returned by Connect. Zero means accepted; non-zero values are MQTT
// v3.1.1 return codes, or v5 reason codes on a v5 session.
type ConnectionStatus = libmosq.ConnackCode

// MQTT v3.1.1 connection results.
const (
	StatusAccepted               = libmosq.ConnackAccepted
	StatusRefusedProtocolVersion = libmosq.ConnackRefusedProtocolVersion
	StatusRefusedIdentifier      = libmosq.ConnackRefusedIdentifier
	StatusServerUnavailable      = libmosq.ConnackServerUnavailable
	StatusBadCredentials         = libmosq.ConnackBadCredentials
	StatusNotAuthorised          = libmosq.ConnackNotAuthorised
)

// State is the client's observed connection lifecycle phase, reported by
// Client.State. It mirrors engine events and is advisory: the engine owns
// the real socket.
type State string

// Connection lifecycle phases.
const (
	StateUnconnected State = "unconnected"
	StateConnecting  State = "connecting"
	StateConnected   State = "connected"
	StateClosed      State = "closed"
)
