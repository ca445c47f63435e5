// mosqcat is a command-line MQTT client in the spirit of mosquitto_pub
// and mosquitto_sub, built on the mosq library and the host's
// libmosquitto engine:
//
//	mosqcat pub -t sensors/hall/temp -m 21.5
//	mosqcat sub -t 'sensors/#' -C 10
//	mosqcat version
//
// Configuration layers, lowest precedence first: built-in defaults, the
// YAML config file, MOSQCAT_* environment variables, command-line flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

func main() {
	// Cancel the context on interrupt signals (Ctrl+C, SIGTERM) so a
	// waiting pub and a streaming sub both unwind cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
