package router

import "errors"

// Routing errors. Match with errors.Is.
var (
	// ErrInvalidRoute is returned for a malformed route path.
	ErrInvalidRoute = errors.New("router: invalid route")

	// ErrRouteExists is returned when a route path is registered twice.
	ErrRouteExists = errors.New("router: route already registered")

	// ErrNilHandler is returned when a route is registered without a
	// handler.
	ErrNilHandler = errors.New("router: handler cannot be nil")

	// ErrNoRoute is returned by Dispatch when no route matches the
	// message topic.
	ErrNoRoute = errors.New("router: no route for topic")

	// ErrPayloadNotUTF8 is returned by Request.Text for a payload that
	// is not valid UTF-8.
	ErrPayloadNotUTF8 = errors.New("router: payload is not valid UTF-8")
)
