package keyValueDb

import "errors"

var (
	// ErrDBClosed is returned when an operation is attempted on a closed DB.
	ErrDBClosed = errors.New("keyValueDb: database is closed")

	// ErrKeyNotFound is returned when a Read target does not exist.
	ErrKeyNotFound = errors.New("keyValueDb: key not found")
)
