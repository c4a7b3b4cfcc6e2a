package client

import (
	"context"

	"github.com/fedimint-nostimint/nostimint/internal/common"
)

// FederationAPI is the client's view of the federation's sign_note and
// wait_signed_note API endpoints. It is a host collaborator: the actual
// request/response transport is out of scope (spec.md §1).
type FederationAPI interface {
	SignNote(ctx context.Context, event common.Event) (common.EventID, error)
	WaitSignedNote(ctx context.Context, event common.Event) (common.Event, common.Signature, error)
}

// EventBuilder turns a plain text message into the opaque Event envelope
// nostimint signs. The event-object schema itself is an external
// collaborator (spec.md §1); this module only needs something that can
// turn a message into an Event and back.
type EventBuilder interface {
	BuildNote(message string) (common.Event, error)
}
