// Package bbolt backs the nostimint client module's persistent state with
// go.etcd.io/bbolt.
package bbolt

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/fedimint-nostimint/nostimint/internal/storage/keyValueDb"
)

// DefaultBucket is the single bucket nostimint's client state lives in; the
// byte-prefixed namespace scheme (see keyValueDb.PrefixKey) distinguishes
// rows within it instead of using separate bbolt buckets.
var DefaultBucket = []byte("nostimint")

// DB wraps a bbolt.DB and a single bucket to satisfy keyValueDb.DB.
type DB struct {
	db     *bbolt.DB
	bucket []byte
}

// Open opens (creating if necessary) a bbolt database at path and ensures
// bucket exists.
func Open(path string, bucket []byte) (*DB, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("bbolt: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt: create bucket: %w", err)
	}
	return &DB{db: db, bucket: bucket}, nil
}

// NewDB wraps an already-open bbolt.DB and bucket.
func NewDB(db *bbolt.DB, bucket []byte) *DB { return &DB{db: db, bucket: bucket} }

// Close closes the underlying bbolt database.
func (b *DB) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if b.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}

	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return fmt.Errorf("bbolt: bucket %s not found", b.bucket)
		}
		val := bucket.Get(key)
		if val == nil {
			return keyValueDb.ErrKeyNotFound
		}
		out = make([]byte, len(val))
		copy(out, val)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *DB) Write(ctx context.Context, key, value []byte) error {
	if b.db == nil {
		return keyValueDb.ErrDBClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return fmt.Errorf("bbolt: bucket %s not found", b.bucket)
		}
		return bucket.Put(key, value)
	})
}

func (b *DB) Delete(ctx context.Context, key []byte) error {
	if b.db == nil {
		return keyValueDb.ErrDBClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return fmt.Errorf("bbolt: bucket %s not found", b.bucket)
		}
		return bucket.Delete(key)
	})
}

// Batch commits ops in a single bbolt.Update transaction rather than
// bbolt's own (*bbolt.DB).Batch, which coalesces concurrent callers and may
// retry the passed function on conflict; a retried batch here would redo
// consensus state transitions.
func (b *DB) Batch(ctx context.Context, ops []keyValueDb.BatchOperation) error {
	if b.db == nil {
		return keyValueDb.ErrDBClosed
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(b.bucket)
		if bucket == nil {
			return fmt.Errorf("bbolt: bucket %s not found", b.bucket)
		}
		for _, op := range ops {
			var err error
			switch op.Type {
			case keyValueDb.BatchPut:
				err = bucket.Put(op.Key, op.Value)
			case keyValueDb.BatchDelete:
				err = bucket.Delete(op.Key)
			default:
				return fmt.Errorf("bbolt: unknown batch operation type: %d", op.Type)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Iterator walks bbolt rows within a half-open range using a cursor.
type Iterator struct {
	tx         *bbolt.Tx
	cursor     *bbolt.Cursor
	start, end []byte
	started    bool
	current    struct {
		key, value []byte
	}
}

func (b *DB) Iterator(ctx context.Context, start, end []byte) (keyValueDb.Iterator, error) {
	if b.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}

	tx, err := b.db.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("bbolt: begin iterator tx: %w", err)
	}
	bucket := tx.Bucket(b.bucket)
	if bucket == nil {
		tx.Rollback()
		return nil, fmt.Errorf("bbolt: bucket %s not found", b.bucket)
	}

	return &Iterator{tx: tx, cursor: bucket.Cursor(), start: start, end: end}, nil
}

func (it *Iterator) Next() bool {
	var k, v []byte
	if !it.started {
		it.started = true
		if it.start == nil {
			k, v = it.cursor.First()
		} else {
			k, v = it.cursor.Seek(it.start)
		}
	} else {
		k, v = it.cursor.Next()
	}

	// end is exclusive (keyValueDb.PrefixRange/Range hand back a half-open
	// bound), so stop at the first key >= end rather than the first key > end.
	if k == nil || (it.end != nil && string(k) >= string(it.end)) {
		it.current.key = nil
		it.current.value = nil
		return false
	}

	it.current.key = k
	it.current.value = v
	return true
}

func (it *Iterator) Key() []byte   { return it.current.key }
func (it *Iterator) Value() []byte { return it.current.value }
func (it *Iterator) Error() error  { return nil }
func (it *Iterator) Close() error  { return it.tx.Rollback() }
