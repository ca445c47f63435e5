//go:build linux || darwin || freebsd

package libmosq

import "errors"

// Package-level failures that are not engine return codes.
// Engine codes are reported as Errno values.
var (
	// ErrLoad is returned when the shared library cannot be located,
	// loaded, or is missing required symbols.
	ErrLoad = errors.New("libmosq: shared library unavailable")

	// ErrCreate is returned when the engine refuses to allocate a client.
	ErrCreate = errors.New("libmosq: client creation failed")
)
