// Package repository provides the key-value stores behind patient history
// and role flags.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/woundcare/pkg/metrics"
)

// Store is a flat key-value store. Implementations must be safe for
// concurrent use and must not retain the value slices passed to Put.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Len returns the number of stored keys.
	Len(ctx context.Context) int
	// Close releases resources held by the store.
	Close() error
}

// instrumented records latency and failures of every call to the wrapped store.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so its operations are reported to metrics under backend.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(i.backend, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(i.backend, op)
	}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := i.Store.Get(ctx, key)
	i.observe("get", start, err)
	return v, err
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.Store.Put(ctx, key, value)
	i.observe("put", start, err)
	if err == nil {
		metrics.UpdateStoreKeys(i.Store.Len(ctx))
	}
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.Store.Delete(ctx, key)
	i.observe("delete", start, err)
	if err == nil {
		metrics.UpdateStoreKeys(i.Store.Len(ctx))
	}
	return err
}
