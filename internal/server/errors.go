package server

import "errors"

var (
	// ErrNotEnoughFunds is returned by ProcessInput when an account (other
	// than the faucet) tries to spend more than its current balance.
	ErrNotEnoughFunds = errors.New("server: not enough funds")

	// ErrDuplicateShare is returned when a peer submits a second signature
	// share for an event it has already contributed to.
	ErrDuplicateShare = errors.New("server: peer already submitted a signature share for this event")

	// ErrInvalidShare is returned when a signature share fails verification
	// against the submitting peer's published public key share.
	ErrInvalidShare = errors.New("server: invalid signature share")

	// ErrUnknownPeer is returned when a consensus item names a peer not
	// present in the module's configured public key set.
	ErrUnknownPeer = errors.New("server: unknown peer")

	// ErrUnsupportedConsensusItem is returned for any ConsensusItemKind
	// this module does not implement.
	ErrUnsupportedConsensusItem = errors.New("server: unsupported consensus item kind")

	// ErrEventNotFound is returned by operations that look up a sign
	// request that was never submitted via SignNote.
	ErrEventNotFound = errors.New("server: event not found")
)
