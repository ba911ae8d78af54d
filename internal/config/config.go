// Package config centralizes the handful of addresses stringphone's
// relay and participant binaries need, read from flags with environment
// variable fallbacks. It replaces the teacher's hardcoded
// "localhost:9090" / "localhost:6379" / "mongodb://localhost:27017"
// literals with something a deployment can override.
package config

import (
	"flag"
	"os"
)

// Relay holds the configuration for cmd/relay.
type Relay struct {
	ListenAddr string
	RedisAddr  string
}

// Participant holds the configuration for cmd/participant.
type Participant struct {
	RelayAddr string
	MongoURI  string
	Database  string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ParseRelay parses flags (and, failing that, environment variables) for
// cmd/relay. It must be called at most once per process, before the
// default flag.CommandLine is used elsewhere.
func ParseRelay() *Relay {
	cfg := &Relay{}
	flag.StringVar(&cfg.ListenAddr, "listen", getenv("STRINGPHONE_LISTEN_ADDR", "localhost:9090"), "address the relay listens on")
	flag.StringVar(&cfg.RedisAddr, "redis", getenv("STRINGPHONE_REDIS_ADDR", "localhost:6379"), "redis address for store-and-forward")
	flag.Parse()
	return cfg
}

// ParseParticipant parses flags for cmd/participant.
func ParseParticipant() *Participant {
	cfg := &Participant{}
	flag.StringVar(&cfg.RelayAddr, "relay", getenv("STRINGPHONE_RELAY_ADDR", "localhost:9090"), "address of the relay to connect to")
	flag.StringVar(&cfg.MongoURI, "mongo", getenv("STRINGPHONE_MONGO_URI", "mongodb://localhost:27017"), "mongo connection URI for local state persistence")
	flag.StringVar(&cfg.Database, "db", getenv("STRINGPHONE_DB_NAME", "stringphone"), "mongo database name")
	flag.Parse()
	return cfg
}
