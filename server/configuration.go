package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/chattools/msgparse/server/store/linkcache"
)

// configuration captures the service's runtime settings. A single instance is
// populated from command line flags at startup and handed by reference to the
// components that need it; it is not mutated after validation.
type configuration struct {
	// HTTPAddr is the listen address of the HTTP API.
	HTTPAddr string

	// SocketNetwork and SocketAddr describe the line-framed message socket
	// ("unix" + path, or "tcp" + host:port). An empty SocketAddr disables it.
	SocketNetwork string
	SocketAddr    string

	// CacheCapacity is the maximum number of resolved links kept in memory.
	CacheCapacity int

	// MaxURLs caps how many distinct URLs of one message are resolved.
	// Negative means unlimited.
	MaxURLs int

	// MaxMessageSize is the byte limit applied to inbound messages by the
	// transports before the content reaches the parser.
	MaxMessageSize int

	// FetchTimeout bounds each individual title fetch.
	FetchTimeout time.Duration

	// ResolveDeadline bounds the combined wait for all resolutions of one
	// message.
	ResolveDeadline time.Duration

	// Debug enables debug level logging.
	Debug bool
}

// defaultConfiguration returns the settings used when no flags are given.
func defaultConfiguration() *configuration {
	return &configuration{
		HTTPAddr:        ":8080",
		SocketNetwork:   "unix",
		SocketAddr:      "/tmp/msgparse.sock",
		CacheCapacity:   linkcache.DefaultCapacity,
		MaxURLs:         UnlimitedURLs,
		MaxMessageSize:  1 << 20,
		FetchTimeout:    2 * time.Second,
		ResolveDeadline: 2 * time.Second,
	}
}

// IsValid checks the configuration for coherent values.
func (c *configuration) IsValid() error {
	if c.HTTPAddr == "" && c.SocketAddr == "" {
		return errors.New("at least one of the HTTP address and the socket address must be set")
	}

	if c.SocketAddr != "" && c.SocketNetwork != "unix" && c.SocketNetwork != "tcp" {
		return errors.Errorf("unsupported socket network %q, must be unix or tcp", c.SocketNetwork)
	}

	if c.CacheCapacity <= 0 {
		return errors.New("cache capacity must be positive")
	}

	if c.MaxMessageSize <= 0 {
		return errors.New("max message size must be positive")
	}

	if c.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}

	if c.ResolveDeadline <= 0 {
		return errors.New("resolve deadline must be positive")
	}

	return nil
}
