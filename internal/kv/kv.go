// Package kv defines the durable key-value contract the log store is built on
// and the in-process implementations of it. Database-backed implementations
// live in the sqlite, postgres, redis and file subpackages.
package kv

import (
	"context"
	"errors"
)

// ErrNotLoaded is returned when a provider is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

// Backend is a durable string-to-string store. Get reports absence with
// found == false and a nil error. A successful Set is durable.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Provider is a Backend with the lifecycle the CLI drives: Init prepares fresh
// storage (directories, schema), Load opens storage that already exists.
type Provider interface {
	Backend

	Init() error
	Load() error
	Ping(ctx context.Context) error

	// Location returns a non-sensitive description of where data lives.
	Location() string
}
