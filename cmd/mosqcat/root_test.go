package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mosq-go/mosq"
	"github.com/mosq-go/mosq/internal/config"
)

func TestConfigPath_FlagWins(t *testing.T) {
	t.Setenv("MOSQCAT_CONFIG", "/from/env.yaml")

	fl := &rootFlags{configPath: "/from/flag.yaml"}
	if got := configPath(fl); got != "/from/flag.yaml" {
		t.Errorf("configPath() = %q, want flag value", got)
	}
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("MOSQCAT_CONFIG", "/from/env.yaml")

	if got := configPath(&rootFlags{}); got != "/from/env.yaml" {
		t.Errorf("configPath() = %q, want env value", got)
	}
}

func TestConfigPath_Default(t *testing.T) {
	t.Setenv("MOSQCAT_CONFIG", "")

	if got := configPath(&rootFlags{}); got != defaultConfigPath {
		t.Errorf("configPath() = %q, want %q", got, defaultConfigPath)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	fl := &rootFlags{
		host:        "flag.example.com",
		port:        8883,
		keepalive:   15,
		bindAddress: "10.0.0.2",
		clientID:    "flag-client",
		username:    "flaguser",
		password:    "flagpass",
		logLevel:    "debug",
	}

	applyFlags(cfg, fl)

	if cfg.Broker.Host != "flag.example.com" || cfg.Broker.Port != 8883 {
		t.Errorf("broker = %s:%d, want flag values", cfg.Broker.Host, cfg.Broker.Port)
	}
	if cfg.Broker.Keepalive != 15 || cfg.Broker.BindAddress != "10.0.0.2" {
		t.Errorf("keepalive/bind = %d/%q, want flag values", cfg.Broker.Keepalive, cfg.Broker.BindAddress)
	}
	if cfg.Session.ClientID != "flag-client" {
		t.Errorf("Session.ClientID = %q, want %q", cfg.Session.ClientID, "flag-client")
	}
	if cfg.Auth.Username != "flaguser" || cfg.Auth.Password != "flagpass" {
		t.Errorf("Auth = %+v, want flag credentials", cfg.Auth)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestApplyFlags_UnsetKeepsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Broker.Host = "file.example.com"
	cfg.Broker.Port = 8883
	cfg.Session.ClientID = "file-client"

	applyFlags(cfg, &rootFlags{})

	if cfg.Broker.Host != "file.example.com" || cfg.Broker.Port != 8883 {
		t.Errorf("broker = %s:%d, want file values preserved", cfg.Broker.Host, cfg.Broker.Port)
	}
	if cfg.Session.ClientID != "file-client" {
		t.Errorf("Session.ClientID = %q, want file value preserved", cfg.Session.ClientID)
	}
}

func TestLoadConfig_Layering(t *testing.T) {
	content := `
broker:
  host: "file.example.com"
  port: 8883
session:
  client_id: "file-client"
`
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fl := &rootFlags{configPath: configFile, host: "flag.example.com"}
	cfg, err := loadConfig(fl)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Broker.Host != "flag.example.com" {
		t.Errorf("Broker.Host = %q, want flag to beat file", cfg.Broker.Host)
	}
	if cfg.Broker.Port != 8883 {
		t.Errorf("Broker.Port = %d, want 8883 from file", cfg.Broker.Port)
	}
	if cfg.Session.ClientID != "file-client" {
		t.Errorf("Session.ClientID = %q, want file value", cfg.Session.ClientID)
	}
}

func TestLoadConfig_InvalidFlagValue(t *testing.T) {
	fl := &rootFlags{
		configPath: filepath.Join(t.TempDir(), "missing.yaml"),
		port:       70000,
	}
	if _, err := loadConfig(fl); err == nil {
		t.Error("loadConfig() expected validation error for port 70000, got nil")
	}
}

func TestClientOptions_GeneratedClientID(t *testing.T) {
	cfg := config.Default()

	opts := clientOptions(cfg)

	if !strings.HasPrefix(opts.ClientID, "mosqcat-") {
		t.Errorf("ClientID = %q, want mosqcat-<random>", opts.ClientID)
	}
	if again := clientOptions(cfg); again.ClientID == opts.ClientID {
		t.Errorf("ClientID %q repeated across invocations", opts.ClientID)
	}
}

func TestClientOptions_ConfigCarriesThrough(t *testing.T) {
	cfg := config.Default()
	cfg.Session.ClientID = "probe-1"
	cfg.Session.CleanSession = false
	cfg.Session.ProtocolVersion = 5
	cfg.Auth.Username = "sensor"
	cfg.Auth.Password = "hunter2"
	cfg.TLS.Enabled = true
	cfg.TLS.CAFile = "/etc/ssl/ca.pem"
	cfg.TLS.Insecure = true

	opts := clientOptions(cfg)

	if opts.ClientID != "probe-1" || opts.CleanSession {
		t.Errorf("session options = %q/%v, want probe-1/persistent", opts.ClientID, opts.CleanSession)
	}
	if opts.ProtocolVersion != 5 {
		t.Errorf("ProtocolVersion = %d, want 5", opts.ProtocolVersion)
	}
	if opts.Username != "sensor" || opts.Password != "hunter2" {
		t.Errorf("credentials = %q/%q, want config values", opts.Username, opts.Password)
	}
	if opts.TLS == nil || opts.TLS.CAFile != "/etc/ssl/ca.pem" || !opts.TLS.Insecure {
		t.Errorf("TLS = %+v, want config material", opts.TLS)
	}
}

func TestClientOptions_TLSDisabled(t *testing.T) {
	opts := clientOptions(config.Default())
	if opts.TLS != nil {
		t.Errorf("TLS = %+v for disabled config, want nil", opts.TLS)
	}
}

func TestPrintMessage(t *testing.T) {
	m := mosq.Message{Topic: "test/this", Payload: []byte("woot")}

	var quiet bytes.Buffer
	printMessage(&quiet, m, false)
	if quiet.String() != "woot\n" {
		t.Errorf("printMessage() = %q, want %q", quiet.String(), "woot\n")
	}

	var verbose bytes.Buffer
	printMessage(&verbose, m, true)
	if verbose.String() != "test/this woot\n" {
		t.Errorf("printMessage(verbose) = %q, want %q", verbose.String(), "test/this woot\n")
	}
}

func TestRootCommand_Wiring(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"pub", "sub", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q missing: %v", name, err)
		}
	}

	for _, flag := range []string{"config", "host", "port", "keepalive", "id", "username", "password", "timeout"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag %q missing", flag)
		}
	}

	if d, err := time.ParseDuration(root.PersistentFlags().Lookup("timeout").DefValue); err != nil || d != 30*time.Second {
		t.Errorf("timeout default = %q, want 30s", root.PersistentFlags().Lookup("timeout").DefValue)
	}
}

func TestSubCommand_RequiresTopic(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"sub"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil {
		t.Error("sub without --topic succeeded, want required-flag error")
	}
}
