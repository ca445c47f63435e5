package mosq

import (
	"context"

	"github.com/looplab/fsm"
)

// Connection lifecycle events driving the state mirror.
const (
	// eventConnectSent fires when a local Connect issues the handshake.
	eventConnectSent = "connect_sent"
	// eventAccepted fires on an accepted CONNACK.
	eventAccepted = "accepted"
	// eventRefused fires on a rejected CONNACK.
	eventRefused = "refused"
	// eventLost fires when the connection drops, locally or remotely.
	eventLost = "lost"
	// eventClosed fires once, when the client is torn down.
	eventClosed = "closed"
)

// connState mirrors the engine's connection lifecycle for Status, logging
// and metrics. It is advisory — the engine owns the real socket — so
// events the current phase does not permit (reconnect races, duplicate
// disconnect callbacks) are dropped rather than treated as failures.
type connState struct {
	fsm *fsm.FSM
}

func newConnState() *connState {
	return &connState{
		fsm: fsm.NewFSM(
			string(StateUnconnected),
			fsm.Events{
				{Name: eventConnectSent, Src: []string{string(StateUnconnected)}, Dst: string(StateConnecting)},

				// Accepted from unconnected covers engine-driven
				// reconnects that never pass through a local Connect.
				{Name: eventAccepted, Src: []string{string(StateConnecting), string(StateUnconnected)}, Dst: string(StateConnected)},

				{Name: eventRefused, Src: []string{string(StateConnecting)}, Dst: string(StateUnconnected)},
				{Name: eventLost, Src: []string{string(StateConnecting), string(StateConnected)}, Dst: string(StateUnconnected)},
				{Name: eventClosed, Src: []string{string(StateUnconnected), string(StateConnecting), string(StateConnected)}, Dst: string(StateClosed)},
			},
			fsm.Callbacks{},
		),
	}
}

// fire advances the mirror, dropping transitions the current phase does
// not permit.
func (s *connState) fire(event string) {
	_ = s.fsm.Event(context.Background(), event)
}

func (s *connState) current() State {
	return State(s.fsm.Current())
}
