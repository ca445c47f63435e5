package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newPubCommand(fl *rootFlags) *cobra.Command {
	var (
		topic     string
		message   string
		fromStdin bool
		qos       uint8
		retain    bool
	)
	cmd := &cobra.Command{
		Use:   "pub",
		Short: "Publish a single message",
		Long: `pub connects to the broker, publishes one message and waits for
the engine's completion callback before exiting, so a zero exit status
means the QoS handshake finished (or, for QoS 0, the message left the
client).`,
		Example: `  mosqcat pub -t sensors/hall/temp -m 21.5
  tar czf - ./logs | mosqcat pub -t backups/logs --stdin -q 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := []byte(message)
			if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading payload from stdin: %w", err)
				}
				payload = data
			}

			s, err := connect(cmd.Context(), fl)
			if err != nil {
				return err
			}
			defer s.close()

			pubCtx, cancel := context.WithTimeout(cmd.Context(), fl.timeout)
			defer cancel()
			id, err := s.client.Publish(pubCtx, topic, payload, qos, retain)
			if err != nil {
				return err
			}
			s.log.Debug("published", "topic", topic, "mid", int32(id), "bytes", len(payload))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&topic, "topic", "t", "", "topic to publish to (required)")
	f.StringVarP(&message, "message", "m", "", "message payload")
	f.BoolVar(&fromStdin, "stdin", false, "read the payload from standard input instead of --message")
	f.Uint8VarP(&qos, "qos", "q", 0, "QoS level (0, 1 or 2)")
	f.BoolVarP(&retain, "retain", "r", false, "mark the message as retained")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}
