/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		bind:           "127.0.0.1",
		maxPlayers:     10,
		playerTimeout:  time.Minute,
		port:           8080,
		sessionTimeout: time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, false},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, true},
		{"port too high", func(c *Config) { c.port = 65536 }, true},
		{"room too small", func(c *Config) { c.maxPlayers = 2 }, true},
		{"sweep disabled", func(c *Config) { c.sessionTimeout = 0 }, false},
		{"negative timeout", func(c *Config) { c.sessionTimeout = -time.Second }, true},
		{"sub-second timeout", func(c *Config) { c.sessionTimeout = time.Nanosecond }, true},
		{"player timeout too short", func(c *Config) { c.playerTimeout = 500 * time.Millisecond }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	if got := cfg.scheme(); got != "http" {
		t.Errorf("scheme = %q, want http", got)
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if got := cfg.scheme(); got != "https" {
		t.Errorf("scheme = %q, want https", got)
	}
}

func TestNewCmdDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 8080 || cfg.bind != "0.0.0.0" || cfg.maxPlayers != 10 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.sessionTimeout != time.Hour {
		t.Errorf("session timeout = %s, want 1h", cfg.sessionTimeout)
	}
	if cfg.playerTimeout != time.Minute {
		t.Errorf("player timeout = %s, want 1m", cfg.playerTimeout)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestNewCmdEnvironment(t *testing.T) {
	t.Setenv("IMPOSTOR_PORT", "9090")
	t.Setenv("IMPOSTOR_MAX_PLAYERS", "6")
	t.Setenv("IMPOSTOR_SESSION_TIMEOUT", "15m")
	t.Setenv("IMPOSTOR_VERBOSE", "true")
	t.Setenv("IMPOSTOR_PLAYER_TIMEOUT", "2m")

	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.port)
	}
	if cfg.maxPlayers != 6 {
		t.Errorf("max players = %d, want 6", cfg.maxPlayers)
	}
	if cfg.sessionTimeout != 15*time.Minute {
		t.Errorf("session timeout = %s, want 15m", cfg.sessionTimeout)
	}
	if cfg.playerTimeout != 2*time.Minute {
		t.Errorf("player timeout = %s, want 2m", cfg.playerTimeout)
	}
	if !cfg.verbose {
		t.Error("verbose not set from the environment")
	}
}

func TestNewCmdFlagsBeatEnvironment(t *testing.T) {
	t.Setenv("IMPOSTOR_PORT", "9090")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags([]string{"--port", "7070"}); err != nil {
		t.Fatal(err)
	}

	if cfg.port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.port)
	}
}
