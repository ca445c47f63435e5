package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/mosq-go/mosq"
)

// Handler processes one routed message.
type Handler func(ctx context.Context, req *Request) error

// Client is the subscription surface the router drives. *mosq.Client
// satisfies it.
type Client interface {
	Subscribe(ctx context.Context, pattern string, qos byte) (byte, error)
}

// Router maps topic routes to handlers. Register routes with Route, then
// feed it messages through Serve or Dispatch. Methods are safe for
// concurrent use.
type Router struct {
	client Client

	mu     sync.RWMutex
	routes []boundRoute
	log    mosq.Logger
}

type boundRoute struct {
	route   route
	handler Handler
}

// New returns a router issuing subscriptions through c.
func New(c Client) *Router {
	return &Router{client: c}
}

// SetLogger attaches a logger for dispatch failures during Serve.
// Passing nil restores silence.
func (r *Router) SetLogger(l mosq.Logger) {
	r.mu.Lock()
	r.log = l
	r.mu.Unlock()
}

func (r *Router) logger() mosq.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.log
}

// Route subscribes to the pattern derived from path and registers
// handler for matching messages. Captures use ":name" segments:
// "devices/:device/command" subscribes to "devices/+/command".
// Subscriptions are made at QoS 0; raise delivery guarantees by
// subscribing the underlying client directly.
func (r *Router) Route(ctx context.Context, path string, handler Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	rt, err := parseRoute(path)
	if err != nil {
		return err
	}

	r.mu.Lock()
	for _, br := range r.routes {
		if br.route.path == path {
			r.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrRouteExists, path)
		}
	}
	r.mu.Unlock()

	if _, err := r.client.Subscribe(ctx, rt.pattern, mosq.QoSAtMostOnce); err != nil {
		return fmt.Errorf("router: subscribing %s: %w", rt.pattern, err)
	}

	r.mu.Lock()
	r.routes = append(r.routes, boundRoute{route: rt, handler: handler})
	r.mu.Unlock()
	return nil
}

// Topics returns the subscription patterns of the registered routes in
// registration order.
func (r *Router) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]string, len(r.routes))
	for i, br := range r.routes {
		topics[i] = br.route.pattern
	}
	return topics
}

// Dispatch routes m to the first registered route matching its topic and
// runs the handler. ErrNoRoute reports an unmatched topic; any other
// error comes from the handler itself.
func (r *Router) Dispatch(ctx context.Context, m mosq.Message) error {
	r.mu.RLock()
	routes := r.routes
	r.mu.RUnlock()

	for _, br := range routes {
		if params, ok := br.route.match(m.Topic); ok {
			return br.handler(ctx, &Request{Message: m, params: params})
		}
	}
	return fmt.Errorf("%w: %s", ErrNoRoute, m.Topic)
}

// Serve dispatches every message from the stream until the stream
// closes or ctx is done. Dispatch failures, unmatched topics included,
// are logged and do not stop the pump.
func (r *Router) Serve(ctx context.Context, messages <-chan mosq.Message) error {
	for {
		select {
		case m, ok := <-messages:
			if !ok {
				return nil
			}
			if err := r.Dispatch(ctx, m); err != nil {
				if log := r.logger(); log != nil {
					log.Warn("dispatch failed", "topic", m.Topic, "error", err)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
