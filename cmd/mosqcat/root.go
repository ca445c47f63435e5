package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mosq-go/mosq"
	"github.com/mosq-go/mosq/internal/config"
	"github.com/mosq-go/mosq/internal/logging"
)

// defaultConfigPath is used when neither --config nor MOSQCAT_CONFIG
// names a file. A missing file is not an error: defaults plus flags are
// a complete configuration.
const defaultConfigPath = "mosqcat.yaml"

// rootFlags carries the connection flags shared by every subcommand.
// Zero values mean "not set": the config file and environment fill the
// gaps.
type rootFlags struct {
	configPath  string
	host        string
	port        int
	keepalive   int
	bindAddress string
	clientID    string
	username    string
	password    string
	logLevel    string
	timeout     time.Duration
}

func newRootCommand() *cobra.Command {
	fl := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "mosqcat",
		Short: "Publish and subscribe to MQTT topics via libmosquitto",
		Long: `mosqcat talks to an MQTT broker through the host's libmosquitto
engine. Broker settings come from command-line flags, MOSQCAT_*
environment variables and an optional YAML config file, in that order
of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addConnectionFlags(cmd.PersistentFlags(), fl)
	cmd.AddCommand(newPubCommand(fl), newSubCommand(fl), newVersionCommand())
	return cmd
}

// addConnectionFlags registers the broker connection flags on fs.
// Shorthands follow the mosquitto client tools where they exist there.
func addConnectionFlags(fs *pflag.FlagSet, fl *rootFlags) {
	fs.StringVar(&fl.configPath, "config", "", "path to the YAML config file")
	fs.StringVarP(&fl.host, "host", "H", "", "broker host")
	fs.IntVarP(&fl.port, "port", "p", 0, "broker port")
	fs.IntVarP(&fl.keepalive, "keepalive", "k", 0, "keepalive interval in seconds")
	fs.StringVar(&fl.bindAddress, "bind-address", "", "local network interface to bind")
	fs.StringVarP(&fl.clientID, "id", "i", "", "client ID (default mosqcat-<random>)")
	fs.StringVarP(&fl.username, "username", "u", "", "broker username")
	fs.StringVarP(&fl.password, "password", "P", "", "broker password")
	fs.StringVar(&fl.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.DurationVar(&fl.timeout, "timeout", 30*time.Second, "per-operation timeout for connect, publish and subscribe")
}

// loadConfig resolves the layered configuration: defaults, then the
// file, then the environment, then set flags on top.
func loadConfig(fl *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(configPath(fl))
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, fl)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// configPath returns the config file path: the --config flag, the
// MOSQCAT_CONFIG environment variable, then the default.
func configPath(fl *rootFlags) string {
	if fl.configPath != "" {
		return fl.configPath
	}
	if path := os.Getenv("MOSQCAT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// applyFlags lays set flags over cfg. Flags win over the file and the
// environment.
func applyFlags(cfg *config.Config, fl *rootFlags) {
	if fl.host != "" {
		cfg.Broker.Host = fl.host
	}
	if fl.port != 0 {
		cfg.Broker.Port = fl.port
	}
	if fl.keepalive != 0 {
		cfg.Broker.Keepalive = fl.keepalive
	}
	if fl.bindAddress != "" {
		cfg.Broker.BindAddress = fl.bindAddress
	}
	if fl.clientID != "" {
		cfg.Session.ClientID = fl.clientID
	}
	if fl.username != "" {
		cfg.Auth.Username = fl.username
	}
	if fl.password != "" {
		cfg.Auth.Password = fl.password
	}
	if fl.logLevel != "" {
		cfg.Logging.Level = fl.logLevel
	}
}

// clientOptions translates the resolved configuration into mosq options.
// An unset client ID becomes mosqcat-<random> so broker logs show who
// connected; the engine's self-assigned IDs are opaque.
func clientOptions(cfg *config.Config) mosq.Options {
	opts := mosq.DefaultOptions()
	opts.ClientID = cfg.Session.ClientID
	if opts.ClientID == "" {
		opts.ClientID = "mosqcat-" + uuid.NewString()[:8]
	}
	opts.CleanSession = cfg.Session.CleanSession
	opts.Username = cfg.Auth.Username
	opts.Password = cfg.Auth.Password
	opts.ProtocolVersion = cfg.Session.ProtocolVersion
	if cfg.TLS.Enabled {
		opts.TLS = &mosq.TLSOptions{
			CAFile:   cfg.TLS.CAFile,
			CAPath:   cfg.TLS.CAPath,
			CertFile: cfg.TLS.CertFile,
			KeyFile:  cfg.TLS.KeyFile,
			Insecure: cfg.TLS.Insecure,
		}
	}
	return opts
}

// session is a connected client plus the pieces subcommands need around
// it.
type session struct {
	client *mosq.Client
	cfg    *config.Config
	log    *logging.Logger
}

// connect builds a client from the resolved configuration and performs
// the broker handshake, bounded by --timeout.
func connect(ctx context.Context, fl *rootFlags) (*session, error) {
	cfg, err := loadConfig(fl)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Logging, version)
	opts := clientOptions(cfg)

	client, err := mosq.NewClient(opts)
	if err != nil {
		return nil, err
	}
	client.SetLogger(log)

	connectCtx, cancel := context.WithTimeout(ctx, fl.timeout)
	defer cancel()
	status, err := client.Connect(connectCtx, cfg.Broker.Host, cfg.Broker.Port, cfg.Broker.Keepalive, cfg.Broker.BindAddress)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to %s:%d: %w", cfg.Broker.Host, cfg.Broker.Port, err)
	}
	log.Debug("connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", opts.ClientID,
		"status", status.String(),
	)

	return &session{client: client, cfg: cfg, log: log}, nil
}

func (s *session) close() {
	_ = s.client.Close()
}
