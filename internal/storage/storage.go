// Package storage provides key-value backends for persisted application state.
//
// A backend maps a string key to an opaque byte blob, the same contract a
// browser's local storage offers. Three drivers exist:
//
//   - "file": one JSON file per key inside a data directory (default)
//   - "redis": one Redis string per key, optionally prefixed
//   - "memory": process-local map, discarded on exit
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Backend stores opaque blobs under string keys.
type Backend interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases any resources held by the backend.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver string
	// Dir is the data directory for the file driver.
	Dir   string
	Redis RedisOptions
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverFile:
		return NewFile(opts.Dir)
	case DriverRedis:
		return NewRedis(ctx, opts.Redis)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want file, redis or memory)", opts.Driver)
	}
}
