// Package config loads runtime configuration for both services.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ProfileHTTP struct {
		Addr string
	}
	SongHTTP struct {
		Addr string
	}
	GraphDB struct {
		Driver string
		DSN    string
	}
	CatalogDB struct {
		Driver string
		DSN    string
	}
	// Base URLs each service uses to reach its sibling.
	SongBaseURL    string
	ProfileBaseURL string
	// PeerTimeout bounds every sibling-service call; a timeout is treated
	// the same as any other unavailable outcome.
	PeerTimeout time.Duration
}

// Load reads config from environment (CHORUS_ prefix) and optional
// chorus.yaml. Defaults run both services on localhost against sqlite
// files, which is the development and test layout.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CHORUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("chorus")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("profile.addr", ":3002")
	v.SetDefault("song.addr", ":3001")
	v.SetDefault("graphdb.driver", "sqlite3")
	v.SetDefault("graphdb.dsn", "chorus-graph.db")
	v.SetDefault("catalogdb.driver", "sqlite3")
	v.SetDefault("catalogdb.dsn", "chorus-catalog.db")
	v.SetDefault("song.base_url", "http://localhost:3001")
	v.SetDefault("profile.base_url", "http://localhost:3002")
	v.SetDefault("peer.timeout", "5s")

	cfg := &Config{}
	cfg.ProfileHTTP.Addr = v.GetString("profile.addr")
	cfg.SongHTTP.Addr = v.GetString("song.addr")
	cfg.GraphDB.Driver = v.GetString("graphdb.driver")
	cfg.GraphDB.DSN = v.GetString("graphdb.dsn")
	cfg.CatalogDB.Driver = v.GetString("catalogdb.driver")
	cfg.CatalogDB.DSN = v.GetString("catalogdb.dsn")
	cfg.SongBaseURL = v.GetString("song.base_url")
	cfg.ProfileBaseURL = v.GetString("profile.base_url")

	timeout, err := time.ParseDuration(v.GetString("peer.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHORUS_PEER_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("CHORUS_PEER_TIMEOUT must be positive")
	}
	cfg.PeerTimeout = timeout

	return cfg, nil
}
