// Package keyValueDb defines the storage abstraction nostimint's server and
// client persist their state through: a small DB interface with pluggable
// backends (pebble server-side, bbolt client-side) so the module logic
// never imports a concrete store.
package keyValueDb

import "context"

// DB is the minimal key/value contract every backend must satisfy.
type DB interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	Batch(ctx context.Context, ops []BatchOperation) error
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

// Iterator traverses keys in the half-open range [start, end) in
// lexicographic order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation is a single write or delete applied atomically as part of
// a Batch call.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

// BatchOpType distinguishes a put from a delete within a BatchOperation.
type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
