package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mosq-go/mosq"
)

func newSubCommand(fl *rootFlags) *cobra.Command {
	var (
		topics  []string
		qos     uint8
		count   int
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Subscribe to topic patterns and print messages",
		Long: `sub subscribes to one or more topic patterns and prints each
message payload to stdout, one per line; logs go to stderr so the
output pipes cleanly. The stream runs until interrupted, or until
--count messages have arrived.

When metrics.listen is set in the config file, client metrics are
served on that address at /metrics for the lifetime of the stream.`,
		Example: `  mosqcat sub -t 'sensors/#'
  mosqcat sub -t home/door -t home/window -q 1 -C 1 --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSub(cmd, fl, topics, qos, count, verbose)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&topics, "topic", "t", nil, "topic pattern to subscribe to (repeatable, required)")
	f.Uint8VarP(&qos, "qos", "q", 0, "QoS level to request (0, 1 or 2)")
	f.IntVarP(&count, "count", "C", 0, "exit after this many messages (0 = run until interrupted)")
	f.BoolVarP(&verbose, "verbose", "v", false, "print the topic before each payload")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func runSub(cmd *cobra.Command, fl *rootFlags, topics []string, qos uint8, count int, verbose bool) error {
	s, err := connect(cmd.Context(), fl)
	if err != nil {
		return err
	}
	defer s.close()

	var reg *prometheus.Registry
	if s.cfg.Metrics.Listen != "" {
		reg = prometheus.NewRegistry()
		met, err := mosq.NewMetrics(reg)
		if err != nil {
			return fmt.Errorf("building metrics: %w", err)
		}
		s.client.SetMetrics(met)
	}

	// Take the stream before subscribing: nothing delivered after the
	// SUBACK can be missed.
	stream, err := s.client.Subscriber()
	if err != nil {
		return err
	}
	for _, pattern := range topics {
		subCtx, cancel := context.WithTimeout(cmd.Context(), fl.timeout)
		granted, err := s.client.Subscribe(subCtx, pattern, qos)
		cancel()
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", pattern, err)
		}
		s.log.Debug("subscribed", "pattern", pattern, "granted_qos", granted)
	}

	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		received := 0
		for {
			select {
			case m, ok := <-stream:
				if !ok {
					return nil
				}
				printMessage(cmd.OutOrStdout(), m, verbose)
				received++
				if count > 0 && received >= count {
					stop()
					return nil
				}
			case <-gctx.Done():
				return nil
			}
		}
	})

	if listen := s.cfg.Metrics.Listen; listen != "" {
		srv := &http.Server{
			Addr:              listen,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			s.log.Info("metrics endpoint listening", "addr", listen)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics endpoint: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

func metricsMux(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

// printMessage writes one delivery to w: the payload alone, or
// "topic payload" when verbose.
func printMessage(w io.Writer, m mosq.Message, verbose bool) {
	if verbose {
		fmt.Fprintf(w, "%s %s\n", m.Topic, m.Payload)
		return
	}
	fmt.Fprintf(w, "%s\n", m.Payload)
}
