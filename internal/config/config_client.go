package config

import "time"

// ClientConfig is the client-specific view of the application configuration.
// It exposes only the fields the headless sync client needs.
type ClientConfig struct {
	App     App
	Adapter Adapter
	Local   Local
	Sync    Sync
}

// GetClientConfig builds and validates a client-specific config view from the
// shared configuration sources.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client, and applies client defaults.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, err
	}

	clientCfg := &ClientConfig{
		App:     cfg.App,
		Adapter: cfg.Adapter,
		Local:   cfg.Storage.Local,
		Sync:    cfg.Sync,
	}
	clientCfg.applyDefaults()

	return clientCfg, nil
}

func (c *ClientConfig) applyDefaults() {
	if c.Adapter.HTTPAddress == "" {
		c.Adapter.HTTPAddress = "http://localhost:8080"
	}
	if c.Adapter.RequestTimeout <= 0 {
		c.Adapter.RequestTimeout = 15 * time.Second
	}
	if c.Local.DSN == "" {
		c.Local.DSN = "tasks.db"
	}
	if c.Sync.Interval <= 0 {
		c.Sync.Interval = 5 * time.Minute
	}
	if c.Sync.ProbeInterval <= 0 {
		c.Sync.ProbeInterval = 30 * time.Second
	}
}
