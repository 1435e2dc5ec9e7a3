// Package kv provides the key-value backends used to persist tuifit state.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Fixed record keys. Each store owns exactly one key.
const (
	KeyCustomExercises  = "tuifit:custom_exercises"
	KeyCustomRoutines   = "tuifit:custom_routines"
	KeyRoutineExercises = "tuifit:routine_exercises"
	KeyWorkoutLogs      = "tuifit:logs"
)

// Keys lists every record key.
var Keys = []string{KeyCustomExercises, KeyCustomRoutines, KeyRoutineExercises, KeyWorkoutLogs}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

//go:generate mockgen -source=$GOFILE -destination=kvmock/mock_backend.go -package=kvmock

// Backend stores serialized records by key.
type Backend interface {
	// Get returns the stored value; ok is false when the key was never set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Stamper is implemented by backends that record when each key was last written.
type Stamper interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Path        string
	RedisAddr   string
	RedisPass   string
	RedisDB     int
	RedisPrefix string
	MemorySize  int
}

// Open constructs the backend named in opts.
func Open(opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		return OpenSQLite(opts.Path)
	case BackendRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("redis backend requires an address")
		}
		return NewRedis(RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPass,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		}), nil
	case BackendMemory:
		return NewMemory(opts.MemorySize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
