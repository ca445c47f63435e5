package mosq

import "github.com/mosq-go/mosq/libmosq"

// engine is the native client surface the facade drives. *libmosq.Client
// satisfies it; unit tests substitute a scripted implementation.
type engine interface {
	Connect(host string, port, keepalive int, bindAddress string) error
	Disconnect() error
	Publish(topic string, payload []byte, qos byte, retain bool) (MessageID, error)
	Subscribe(pattern string, qos byte) (MessageID, error)
	Unsubscribe(pattern string) (MessageID, error)
	LoopStart() error
	LoopStop(force bool) error
	Destroy()
}

var _ engine = (*libmosq.Client)(nil)
