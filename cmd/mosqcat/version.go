package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mosq-go/mosq/libmosq"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print mosqcat and engine version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mosqcat %s (commit %s, built %s)\n", version, commit, date)
			v, err := libmosq.Version()
			if err != nil {
				return fmt.Errorf("engine version unavailable: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "libmosquitto %s\n", v)
			return nil
		},
	}
}
