// Package config loads and validates mosqcat configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Command-line flags take precedence over everything here; the file and
// environment exist so brokers and credentials survive between
// invocations.
//
// Security Considerations:
//   - Set passwords via MOSQCAT_PASSWORD rather than the config file
//   - A config file carrying credentials should be chmod 0600
//
// Usage:
//
//	cfg, err := config.Load("~/.config/mosqcat/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Broker.Host)
package config
