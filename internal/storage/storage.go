package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/checkout-kit/pkg/orders"
)

// Package storage persists merchant access tokens between runs.

// Store keeps access tokens keyed by environment and plugs into
// orders.WithTokenStore.
type Store interface {
	orders.TokenStore
	Close() error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	CleanupInterval time.Duration
}

const defaultCleanupInterval = 12 * time.Hour

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled", "memory":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                             { return nil }
func (noopStore) Token(string) (orders.Token, bool, error) { return orders.Token{}, false, nil }
func (noopStore) SaveToken(string, orders.Token) error     { return nil }
