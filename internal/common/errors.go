package common

import "errors"

// Sentinel errors returned by the codec and type constructors in this
// package, wrapped with fmt.Errorf("...: %w", ...) by callers the way
// internal/storage/keyValueDb/errors.go does it.
var (
	// ErrDecode is wrapped by every malformed-input error raised while
	// decoding a wire type.
	ErrDecode = errors.New("common: malformed encoding")

	// ErrUnknownConsensusItemKind is returned when a ConsensusItem tag byte
	// does not match any known kind.
	ErrUnknownConsensusItemKind = errors.New("common: unknown consensus item kind")

	// ErrTruncated is returned when a buffer ends before a field it
	// declared itself to contain has been fully read.
	ErrTruncated = errors.New("common: truncated input")
)
