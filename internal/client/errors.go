// Package client implements the user-facing half of the nostimint module:
// a persistent per-account funds balance, a state machine tracking
// submitted inputs/outputs through to completion or refund, and the
// fed_sign_note/account/fed_public_key API surface.
package client

import "errors"

var (
	// ErrInternal is returned when a host collaborator (the federation API
	// or the global transaction submission pipeline) reports failure
	// without a more specific cause.
	ErrInternal = errors.New("client: nostimint internal error")

	// ErrUnknownOperation is returned when a caller asks about an
	// OperationId this client has no state machine for.
	ErrUnknownOperation = errors.New("client: unknown operation")
)
