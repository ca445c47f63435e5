//go:build linux || darwin || freebsd

package libmosq

import "fmt"

// ConnackCode is the broker's answer to a connection attempt, delivered
// through OnConnect. Zero means accepted. Non-zero values are MQTT v3.1.1
// return codes, or v5 reason codes when the session negotiated v5.
type ConnackCode int32

// MQTT v3.1.1 connection return codes.
const (
	ConnackAccepted ConnackCode = iota
	ConnackRefusedProtocolVersion
	ConnackRefusedIdentifier
	ConnackServerUnavailable
	ConnackBadCredentials
	ConnackNotAuthorised
)

// Accepted reports whether the broker accepted the connection.
func (c ConnackCode) Accepted() bool { return c == ConnackAccepted }

func (c ConnackCode) String() string {
	switch c {
	case ConnackAccepted:
		return "connection accepted"
	case ConnackRefusedProtocolVersion:
		return "connection refused: unacceptable protocol version"
	case ConnackRefusedIdentifier:
		return "connection refused: identifier rejected"
	case ConnackServerUnavailable:
		return "connection refused: broker unavailable"
	case ConnackBadCredentials:
		return "connection refused: bad username or password"
	case ConnackNotAuthorised:
		return "connection refused: not authorised"
	default:
		return fmt.Sprintf("connection refused: reason code %d", int32(c))
	}
}
