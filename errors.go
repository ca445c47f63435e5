package mosq

import "errors"

// Domain errors. Match with errors.Is; engine return codes buried in the
// chains are libmosq.Errno values and can be extracted with errors.As.
var (
	// ErrClientClosed is returned by every operation on a closed client,
	// and delivered to waiters that were outstanding when Close ran.
	ErrClientClosed = errors.New("mosq: client closed")

	// ErrConnectInProgress is returned when Connect is called while an
	// earlier Connect is still waiting for its CONNACK.
	ErrConnectInProgress = errors.New("mosq: connect already in progress")

	// ErrConnectFailed is returned when the connection attempt fails
	// before the broker answers (resolution, dial, engine rejection).
	ErrConnectFailed = errors.New("mosq: connect failed")

	// ErrConnectionRefused matches *ConnectionRefusedError: the broker
	// answered the handshake and said no.
	ErrConnectionRefused = errors.New("mosq: connection refused by broker")

	// ErrPublishFailed is returned when a publish cannot be issued or
	// its wait is abandoned.
	ErrPublishFailed = errors.New("mosq: publish failed")

	// ErrSubscribeFailed is returned when a subscribe cannot be issued
	// or its wait is abandoned.
	ErrSubscribeFailed = errors.New("mosq: subscribe failed")

	// ErrSubscriptionRefused is returned when the broker acknowledges a
	// subscribe with a failure grant.
	ErrSubscriptionRefused = errors.New("mosq: subscription refused by broker")

	// ErrUnsubscribeFailed is returned when an unsubscribe cannot be
	// issued or its wait is abandoned.
	ErrUnsubscribeFailed = errors.New("mosq: unsubscribe failed")

	// ErrSubscriberTaken is returned by Subscriber after the stream has
	// been handed out.
	ErrSubscriberTaken = errors.New("mosq: subscriber already taken")

	// ErrInvalidTopic is returned for an empty topic or pattern.
	ErrInvalidTopic = errors.New("mosq: topic cannot be empty")

	// ErrInvalidQoS is returned for QoS levels above 2.
	ErrInvalidQoS = errors.New("mosq: invalid QoS level (must be 0, 1, or 2)")

	// ErrPayloadTooLarge is returned when a payload exceeds
	// Options.MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("mosq: payload exceeds configured maximum")

	// ErrInvalidOptions is returned by NewClient for a configuration the
	// engine would reject.
	ErrInvalidOptions = errors.New("mosq: invalid options")
)

// ConnectionRefusedError reports that the broker rejected the connection
// handshake. It is distinguishable from transport failures:
// errors.Is(err, ErrConnectionRefused) matches it and errors.As extracts
// the status code.
type ConnectionRefusedError struct {
	Status ConnectionStatus
}

func (e *ConnectionRefusedError) Error() string {
	return "mosq: " + e.Status.String()
}

// Is reports ErrConnectionRefused as a match target.
func (e *ConnectionRefusedError) Is(target error) bool {
	return target == ErrConnectionRefused
}
